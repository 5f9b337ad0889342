package usecase

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/farmacia-pos/internal/application/dto"
	"github.com/tu-usuario/farmacia-pos/internal/domain"
	"github.com/tu-usuario/farmacia-pos/internal/domain/entity"
	"github.com/tu-usuario/farmacia-pos/internal/domain/repository"
)

// fakeDepartmentRepo repositorio en memoria que respeta la unicidad del código.
type fakeDepartmentRepo struct {
	depts []*entity.Department
}

func (r *fakeDepartmentRepo) Create(d *entity.Department) error {
	for _, existing := range r.depts {
		if existing.Code == d.Code {
			return fmt.Errorf("%w: code %s", domain.ErrDuplicate, d.Code)
		}
	}
	cp := *d
	r.depts = append(r.depts, &cp)
	return nil
}

func (r *fakeDepartmentRepo) GetByID(id string) (*entity.Department, error) {
	for _, d := range r.depts {
		if d.ID == id {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeDepartmentRepo) Update(d *entity.Department) error {
	for i, existing := range r.depts {
		if existing.ID == d.ID {
			cp := *d
			r.depts[i] = &cp
			return nil
		}
	}
	return fmt.Errorf("%w: sección %s", domain.ErrNotFound, d.ID)
}

func (r *fakeDepartmentRepo) Delete(id string) error {
	for i, d := range r.depts {
		if d.ID == id {
			r.depts = append(r.depts[:i], r.depts[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeDepartmentRepo) List(filter repository.DepartmentFilter) ([]*entity.Department, int, error) {
	matched := make([]*entity.Department, 0, len(r.depts))
	for _, d := range r.depts {
		if filter.Search != "" &&
			!strings.Contains(strings.ToLower(d.Code), strings.ToLower(filter.Search)) &&
			!strings.Contains(strings.ToLower(d.Name), strings.ToLower(filter.Search)) {
			continue
		}
		matched = append(matched, d)
	}
	total := len(matched)
	if filter.Offset < len(matched) {
		matched = matched[filter.Offset:]
	} else {
		matched = nil
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func TestDepartmentCreate_YDuplicado(t *testing.T) {
	repo := &fakeDepartmentRepo{}
	uc := NewDepartmentUseCase(repo)

	resp, err := uc.Create(dto.CreateDepartmentRequest{Code: "ANTI", Name: "Antibióticos"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "ANTI", resp.Code)

	_, err = uc.Create(dto.CreateDepartmentRequest{Code: "ANTI", Name: "Otra"})
	assert.ErrorIs(t, err, domain.ErrDuplicate, "el código de sección es único")

	_, err = uc.Create(dto.CreateDepartmentRequest{Code: "", Name: "Sin código"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDepartmentUpdate_Parcial(t *testing.T) {
	repo := &fakeDepartmentRepo{}
	uc := NewDepartmentUseCase(repo)

	created, err := uc.Create(dto.CreateDepartmentRequest{Code: "ANAL", Name: "Analgésicos"})
	require.NoError(t, err)

	resp, err := uc.Update(created.ID, dto.CreateDepartmentRequest{Name: "Analgésicos y antipiréticos"})
	require.NoError(t, err)
	assert.Equal(t, "ANAL", resp.Code, "el código no enviado se conserva")
	assert.Equal(t, "Analgésicos y antipiréticos", resp.Name)

	_, err = uc.Update("no-existe", dto.CreateDepartmentRequest{Name: "X"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDepartmentDelete(t *testing.T) {
	repo := &fakeDepartmentRepo{}
	uc := NewDepartmentUseCase(repo)

	created, err := uc.Create(dto.CreateDepartmentRequest{Code: "VITA", Name: "Vitaminas"})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(created.ID))
	assert.Empty(t, repo.depts)

	assert.ErrorIs(t, uc.Delete(created.ID), domain.ErrNotFound, "borrar dos veces devuelve not found")
}

func TestDepartmentList_BusquedaYPaginacion(t *testing.T) {
	repo := &fakeDepartmentRepo{}
	uc := NewDepartmentUseCase(repo)

	for _, d := range []dto.CreateDepartmentRequest{
		{Code: "ANTI", Name: "Antibióticos"},
		{Code: "ANAL", Name: "Analgésicos"},
		{Code: "VITA", Name: "Vitaminas"},
	} {
		_, err := uc.Create(d)
		require.NoError(t, err)
	}

	items, page, err := uc.List("an", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, items, 2, "la búsqueda cubre código y nombre")
	assert.Equal(t, 2, page.Total)

	items, page, err = uc.List("", dto.PageRequest{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 3, page.Total, "el total refleja todas las coincidencias")
}
