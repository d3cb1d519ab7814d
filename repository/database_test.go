package repository

import (
	"context"
	"strings"
	"testing"

	"github.com/france-ecoenergie/crm_back/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openMemory(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	conn, err := Open("sqlite", dsn, false)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

func TestEnsureClientColumnsOnLegacyTable(t *testing.T) {
	conn := openMemory(t)

	// schéma de la première mise en production, sans ville ni ville_travaux
	require.NoError(t, conn.Exec(`CREATE TABLE client_base (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		societe VARCHAR(255) NOT NULL,
		adresse VARCHAR(255),
		code_postal VARCHAR(10)
	)`).Error)
	require.NoError(t, conn.Exec(`INSERT INTO client_base (societe, code_postal) VALUES ('Tissage Perrin', '38100')`).Error)

	added, err := EnsureClientColumns(conn)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ville", "VilleTravaux"}, added)
	assert.True(t, conn.Migrator().HasColumn(&models.Client{}, "ville"))
	assert.True(t, conn.Migrator().HasColumn(&models.Client{}, "ville_travaux"))

	added, err = EnsureClientColumns(conn)
	require.NoError(t, err)
	assert.Empty(t, added)

	require.NoError(t, Migrate(conn))
	var client models.Client
	require.NoError(t, conn.First(&client).Error)
	assert.Equal(t, "Tissage Perrin", client.Societe)
	assert.Empty(t, client.Ville)
}

func TestEnsureClientColumnsWithoutTable(t *testing.T) {
	conn := openMemory(t)
	added, err := EnsureClientColumns(conn)
	require.NoError(t, err)
	assert.Nil(t, added)
}

func TestOperationLogsSQLFallback(t *testing.T) {
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	require.NoError(t, InitDatabase("sqlite", dsn, false))
	t.Cleanup(CloseDatabase)
	ctx := context.Background()
	require.False(t, MongoEnabled())

	for _, path := range []string{"/api/clients", "/api/clients/3", "/api/leads"} {
		require.NoError(t, SaveOperationLog(ctx, &models.OperationLog{Method: "POST", Path: path, StatusCode: 201}))
	}

	logs, total, err := ListOperationLogs(ctx, "/api/clients", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, logs, 2)

	_, total, err = ListOperationLogs(ctx, "", 0, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
}

func TestFindUser(t *testing.T) {
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	require.NoError(t, InitDatabase("sqlite", dsn, false))
	t.Cleanup(CloseDatabase)
	ctx := context.Background()

	user := &models.User{Username: "alice", PasswordHash: "x", Role: models.RoleTelepro}
	require.NoError(t, WithContext(ctx).Create(user).Error)

	found, err := FindUser(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "alice", found.Username)

	found, err = FindUser(ctx, user.ID+100)
	require.NoError(t, err)
	assert.Nil(t, found)
}
