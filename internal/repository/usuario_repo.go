package repository

import (
	"context"

	"essence/backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UsuarioRepository is the minimal account lookup the engine needs: the
// admin account for ledger postings and distributor details for rankings.
type UsuarioRepository interface {
	Create(ctx context.Context, u *model.Usuario) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error)
	FindAdmin(ctx context.Context) (*model.Usuario, error)
	ListDistribuidores(ctx context.Context) ([]model.Usuario, error)
}

type usuarioRepo struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) Create(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *usuarioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	return &u, err
}

func (r *usuarioRepo) FindAdmin(ctx context.Context) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).Where("rol = ? AND activo = true", model.RolAdmin).First(&u).Error
	return &u, err
}

func (r *usuarioRepo) ListDistribuidores(ctx context.Context) ([]model.Usuario, error) {
	var usuarios []model.Usuario
	err := r.db.WithContext(ctx).
		Where("rol = ? AND activo = true", model.RolDistribuidor).
		Order("nombre ASC").Find(&usuarios).Error
	return usuarios, err
}
