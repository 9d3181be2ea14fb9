package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// DefaultCORSOrigins - dev-сервер карты MapperTrip
const DefaultCORSOrigins = "http://localhost:3000,http://localhost:5173"

// CORS разрешает карте читать зоны и отчёты; API без авторизации, cookies не нужны
func CORS(origins string) fiber.Handler {
	if origins == "" {
		origins = DefaultCORSOrigins
	}
	return cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,PATCH,OPTIONS",
		AllowHeaders: "Content-Type,Accept,Accept-Language",
		MaxAge:       600,
	})
}
