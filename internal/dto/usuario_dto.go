package dto

// CrearUsuarioRequest registers an account. The engine keeps exactly the
// identity it needs: a name, a contact email and the rol.
type CrearUsuarioRequest struct {
	Nombre string `json:"nombre" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Rol    string `json:"rol" validate:"required,oneof=admin distribuidor"`
}

type UsuarioResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
	Rol    string `json:"rol"`
	Activo bool   `json:"activo"`
}
