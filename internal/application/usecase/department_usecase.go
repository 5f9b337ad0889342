package usecase

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/tu-usuario/farmacia-pos/internal/application/dto"
	"github.com/tu-usuario/farmacia-pos/internal/domain"
	"github.com/tu-usuario/farmacia-pos/internal/domain/entity"
	"github.com/tu-usuario/farmacia-pos/internal/domain/repository"
)

// DepartmentUseCase casos de uso CRUD para las secciones de la farmacia.
type DepartmentUseCase struct {
	repo repository.DepartmentRepository
}

// NewDepartmentUseCase construye el caso de uso.
func NewDepartmentUseCase(repo repository.DepartmentRepository) *DepartmentUseCase {
	return &DepartmentUseCase{repo: repo}
}

// Create crea una sección. El código es único: un duplicado devuelve
// domain.ErrDuplicate.
func (uc *DepartmentUseCase) Create(in dto.CreateDepartmentRequest) (*dto.DepartmentResponse, error) {
	if in.Code == "" || in.Name == "" {
		return nil, fmt.Errorf("%w: code y name son obligatorios", domain.ErrInvalidInput)
	}
	dept := &entity.Department{
		ID:   uuid.New().String(),
		Code: in.Code,
		Name: in.Name,
	}
	if err := uc.repo.Create(dept); err != nil {
		return nil, err
	}
	return toDepartmentResponse(dept), nil
}

// GetByID obtiene una sección por ID.
func (uc *DepartmentUseCase) GetByID(id string) (*dto.DepartmentResponse, error) {
	dept, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if dept == nil {
		return nil, fmt.Errorf("%w: sección %s", domain.ErrNotFound, id)
	}
	return toDepartmentResponse(dept), nil
}

// Update renombra o recodifica una sección.
func (uc *DepartmentUseCase) Update(id string, in dto.CreateDepartmentRequest) (*dto.DepartmentResponse, error) {
	dept, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if dept == nil {
		return nil, fmt.Errorf("%w: sección %s", domain.ErrNotFound, id)
	}
	if in.Code != "" {
		dept.Code = in.Code
	}
	if in.Name != "" {
		dept.Name = in.Name
	}
	if err := uc.repo.Update(dept); err != nil {
		return nil, err
	}
	return toDepartmentResponse(dept), nil
}

// Delete elimina una sección. Los medicamentos asociados quedan sin sección
// (la FK es SET NULL), no se eliminan.
func (uc *DepartmentUseCase) Delete(id string) error {
	dept, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if dept == nil {
		return fmt.Errorf("%w: sección %s", domain.ErrNotFound, id)
	}
	return uc.repo.Delete(id)
}

// List lista secciones con búsqueda y paginación.
func (uc *DepartmentUseCase) List(search string, page dto.PageRequest) ([]dto.DepartmentResponse, *dto.PageResponse, error) {
	page.DefaultPage()
	depts, total, err := uc.repo.List(repository.DepartmentFilter{
		Search: search,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return nil, nil, err
	}
	items := make([]dto.DepartmentResponse, 0, len(depts))
	for _, d := range depts {
		items = append(items, *toDepartmentResponse(d))
	}
	return items, &dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total}, nil
}

func toDepartmentResponse(d *entity.Department) *dto.DepartmentResponse {
	return &dto.DepartmentResponse{ID: d.ID, Code: d.Code, Name: d.Name}
}
