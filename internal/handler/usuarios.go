package handler

import (
	"net/http"

	"essence/backend/internal/apierror"
	"essence/backend/internal/dto"
	"essence/backend/internal/model"
	"essence/backend/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UsuariosHandler works directly against the repository: account management
// here is registration bookkeeping, not business logic.
type UsuariosHandler struct{ repo repository.UsuarioRepository }

func NewUsuariosHandler(repo repository.UsuarioRepository) *UsuariosHandler {
	return &UsuariosHandler{repo: repo}
}

func (h *UsuariosHandler) Crear(c *gin.Context) {
	var req dto.CrearUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	u := model.Usuario{
		Nombre: req.Nombre,
		Email:  req.Email,
		Rol:    req.Rol,
		Activo: true,
	}
	if err := h.repo.Create(c.Request.Context(), &u); err != nil {
		c.JSON(http.StatusConflict, apierror.New("No se pudo crear el usuario"))
		return
	}
	c.JSON(http.StatusCreated, usuarioToResponse(&u))
}

func (h *UsuariosHandler) Obtener(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	u, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, usuarioToResponse(u))
}

// ListarDistribuidores returns the active distributor accounts.
func (h *UsuariosHandler) ListarDistribuidores(c *gin.Context) {
	usuarios, err := h.repo.ListDistribuidores(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar distribuidores"))
		return
	}
	resp := make([]dto.UsuarioResponse, 0, len(usuarios))
	for i := range usuarios {
		resp = append(resp, usuarioToResponse(&usuarios[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func usuarioToResponse(u *model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:     u.ID.String(),
		Nombre: u.Nombre,
		Email:  u.Email,
		Rol:    u.Rol,
		Activo: u.Activo,
	}
}
