package entity

// User credencial de acceso. PasswordHash nunca contiene la contraseña en claro.
type User struct {
	Username     string
	PasswordHash string
}
