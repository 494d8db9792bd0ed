package bootstrap

import (
	"log/slog"

	"github.com/cdma-ap/cmsnr-directory/internal/config"
	"github.com/cdma-ap/cmsnr-directory/internal/domain/auth"
	"github.com/cdma-ap/cmsnr-directory/internal/domain/birthday"
	"github.com/cdma-ap/cmsnr-directory/internal/domain/directory"
	"github.com/cdma-ap/cmsnr-directory/internal/pkg/jwt"
	"github.com/cdma-ap/cmsnr-directory/internal/pkg/telegram"
	"github.com/cdma-ap/cmsnr-directory/internal/pkg/whatsapp"
	serviceAuth "github.com/cdma-ap/cmsnr-directory/internal/service/auth"
	serviceBirthday "github.com/cdma-ap/cmsnr-directory/internal/service/birthday"
	serviceDirectory "github.com/cdma-ap/cmsnr-directory/internal/service/directory"
)

type Services struct {
	JWT       jwt.Service
	Auth      auth.AuthService
	Directory directory.Service
	Birthday  birthday.Service
}

func NewServices(cfg *config.Config, stores *Stores) *Services {
	loc := cfg.Location()

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	authService := serviceAuth.NewAuthService(cfg.Admin.Username, cfg.Admin.PasswordHash, jwtService)
	directoryService := serviceDirectory.NewDirectoryService(stores.Entries, stores.Staff, stores.Tx, loc)

	sender := whatsapp.NewClient(cfg.Birthday.WhatsAppURL, cfg.Birthday.WhatsAppDepartment, cfg.Birthday.WhatsAppTimeout)
	birthdayCfg := serviceBirthday.Config{
		Location: loc,
		Delay:    cfg.Birthday.SendDelay,
	}
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != 0 {
		notifier, err := telegram.NewNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			slog.Warn("telegram notifier disabled", "error", err)
		} else {
			birthdayCfg.Notifier = notifier
		}
	}
	birthdayService := serviceBirthday.NewBirthdayService(stores.Candidates, sender, birthdayCfg)

	return &Services{
		JWT:       jwtService,
		Auth:      authService,
		Directory: directoryService,
		Birthday:  birthdayService,
	}
}
