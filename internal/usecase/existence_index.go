package usecase

import (
	"strings"

	"github.com/mappertrip/geosync/internal/domain"
	"github.com/mappertrip/geosync/internal/pkg/textnorm"
)

// ExistenceRule - правило, по которому граница признана уже существующей зоной
type ExistenceRule int

const (
	ExistenceNone ExistenceRule = iota
	ExistenceByExternalRef
	ExistenceByAddress
)

func (r ExistenceRule) String() string {
	switch r {
	case ExistenceByExternalRef:
		return "external_ref"
	case ExistenceByAddress:
		return "address"
	default:
		return "none"
	}
}

// ExistenceIndex - индекс зон, строится один раз за запуск.
// При повторах побеждает первая зона.
type ExistenceIndex struct {
	byRef     map[string]*domain.Zone
	byAddress map[string]*domain.Zone
}

// NewExistenceIndex строит индекс по всем зонам
func NewExistenceIndex(zones []*domain.Zone) *ExistenceIndex {
	ix := &ExistenceIndex{
		byRef:     make(map[string]*domain.Zone, len(zones)),
		byAddress: make(map[string]*domain.Zone, len(zones)),
	}
	for _, z := range zones {
		ix.Add(z)
	}
	return ix
}

// Add регистрирует зону (в том числе поставленную в очередь на вставку)
func (ix *ExistenceIndex) Add(z *domain.Zone) {
	if z.HasExternalRef() {
		if _, ok := ix.byRef[*z.ExternalRef]; !ok {
			ix.byRef[*z.ExternalRef] = z
		}
	}
	if key := addressKey(z.Address); key != "" {
		if _, ok := ix.byAddress[key]; !ok {
			ix.byAddress[key] = z
		}
	}
}

// Lookup ищет зону для границы: сначала по external_ref, затем по нормализованному адресу
func (ix *ExistenceIndex) Lookup(b *domain.BoundaryRecord) (*domain.Zone, ExistenceRule) {
	if b.ExternalID != "" {
		if z, ok := ix.byRef[b.ExternalID]; ok {
			return z, ExistenceByExternalRef
		}
	}
	if key := addressKey(b.AddressKey()); key != "" {
		if z, ok := ix.byAddress[key]; ok {
			return z, ExistenceByAddress
		}
	}
	return nil, ExistenceNone
}

// Referenced - есть ли зона, уже связанная с этим external_id
func (ix *ExistenceIndex) Referenced(externalID string) bool {
	_, ok := ix.byRef[externalID]
	return ok
}

// Len - количество зон с external_ref в индексе
func (ix *ExistenceIndex) Len() int {
	return len(ix.byRef)
}

// addressKey - канонический адрес для правила 2. Адрес без названий (", ")
// даёт пустой ключ: такие границы различаются только по external_ref.
func addressKey(address string) string {
	key := textnorm.Canonical(address)
	if strings.Trim(key, ", ") == "" {
		return ""
	}
	return key
}
