package address

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/dbtest"
	"storefront/internal/domain"
)

func sample(name string) domain.Address {
	return domain.Address{
		FullName:     name,
		AddressLine1: "12 MG Road",
		City:         "Indore",
		State:        "Madhya Pradesh",
		PostalCode:   "452001",
		Country:      "India",
		Phone:        "+91 9876543210",
	}
}

func TestPostgres_FirstAddressIsDefault(t *testing.T) {
	pool := dbtest.Pool(t)
	ctx := context.Background()
	repo := NewPostgres(pool, nil)

	first, err := repo.Create(ctx, "u1", sample("Asha Rao"))
	require.NoError(t, err)
	assert.True(t, first.IsDefault)

	second, err := repo.Create(ctx, "u1", sample("Ravi Rao"))
	require.NoError(t, err)
	assert.False(t, second.IsDefault)

	third := sample("Meera Rao")
	third.IsDefault = true
	created, err := repo.Create(ctx, "u1", third)
	require.NoError(t, err)
	assert.True(t, created.IsDefault)

	list, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	defaults := 0
	for _, a := range list {
		if a.IsDefault {
			defaults++
			assert.Equal(t, created.ID, a.ID)
		}
	}
	assert.Equal(t, 1, defaults)

	_, err = repo.Get(ctx, "u2", first.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
