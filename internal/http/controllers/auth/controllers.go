// Package auth contiene los controllers de autenticación.
package auth

import svc "github.com/dropDatabas3/chasqui/internal/http/services/auth"

// Services son los servicios que consumen los controllers auth.
type Services struct {
	Register svc.RegisterService
	Login    svc.LoginService
}

// Controllers agrupa todos los controllers del dominio auth.
type Controllers struct {
	Register *RegisterController
	Login    *LoginController
	Me       *MeController
	Roles    *RolesController
}

// NewControllers crea el agregador de controllers auth.
func NewControllers(s Services) *Controllers {
	return &Controllers{
		Register: NewRegisterController(s.Register),
		Login:    NewLoginController(s.Login),
		Me:       NewMeController(),
		Roles:    NewRolesController(),
	}
}
