package repositories

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// UpdateStock's existence re-check must run on the executor it was
// handed, not the repository's base connection, so that inside a
// transaction it sees rows written earlier in the same transaction.
// The repository here is built on a connection with no expectations;
// any query against it fails the test.
func TestUpdateStockRecheckRunsOnExecutor(t *testing.T) {
	baseDB, baseMock, err := sqlmock.New()
	require.NoError(t, err)
	defer baseDB.Close()

	execDB, execMock, err := sqlmock.New()
	require.NoError(t, err)
	defer execDB.Close()

	execMock.ExpectQuery("UPDATE menu_items").
		WillReturnRows(sqlmock.NewRows([]string{"stock"}))
	execMock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	repo := NewCatalogRepository(baseDB)
	_, err = repo.UpdateStock(execDB, 1, -5)
	assert.ErrorIs(t, err, ErrNegativeStock)

	assert.NoError(t, execMock.ExpectationsWereMet())
	assert.NoError(t, baseMock.ExpectationsWereMet())
}

func TestUpdateStockMissingItem(t *testing.T) {
	execDB, execMock, err := sqlmock.New()
	require.NoError(t, err)
	defer execDB.Close()

	execMock.ExpectQuery("UPDATE menu_items").
		WillReturnRows(sqlmock.NewRows([]string{"stock"}))
	execMock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	repo := NewCatalogRepository(execDB)
	_, err = repo.UpdateStock(execDB, 99, -1)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, execMock.ExpectationsWereMet())
}
