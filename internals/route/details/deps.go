package details

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"condominio_backend/internals/configs"
	authService "condominio_backend/internals/features/users/auth/service"
	helper "condominio_backend/internals/helpers"
	"condominio_backend/internals/helpers/oss"
)

// Deps: semua dependensi yang dibagi ke route fitur.
type Deps struct {
	DB    *gorm.DB
	Redis *redis.Client // boleh nil
	Store oss.ObjectStore
	Clock helper.Clock
	Cfg   configs.AppConfig
	Auth  *authService.AuthService
}
