package database_test

import (
	"context"
	"os"
	"testing"

	"github.com/sahilchouksey/learnhub-api/database"
	"github.com/sahilchouksey/learnhub-api/database/dbtest"
	"github.com/sahilchouksey/learnhub-api/model"
	"github.com/sahilchouksey/learnhub-api/utils/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	auth.Cost = bcrypt.MinCost
	os.Exit(m.Run())
}

func TestSeedAllIsIdempotent(t *testing.T) {
	db := dbtest.NewDB(t)
	ctx := context.Background()
	opts := database.SeedOptions{
		AdminName:     "Root",
		AdminEmail:    "Root@Example.com",
		AdminPassword: "supersecret",
		Demo:          true,
	}

	require.NoError(t, database.RunSeeds(ctx, db, nil, opts))
	require.NoError(t, database.RunSeeds(ctx, db, nil, opts))

	var admin model.User
	require.NoError(t, db.Where("email = ?", "root@example.com").First(&admin).Error)
	assert.Equal(t, model.RoleAdmin, admin.Role)
	assert.NoError(t, auth.VerifyPassword(admin.PasswordHash, "supersecret"))

	counts := map[interface{}]int64{
		&model.User{}:       3,
		&model.Course{}:     2,
		&model.Lesson{}:     3,
		&model.Quiz{}:       1,
		&model.Enrollment{}: 1,
	}
	for m, want := range counts {
		var n int64
		require.NoError(t, db.Model(m).Count(&n).Error)
		assert.Equal(t, want, n, "%T", m)
	}
}

func TestSeedSkipsAdminWithoutCredentials(t *testing.T) {
	db := dbtest.NewDB(t)

	require.NoError(t, database.RunSeeds(context.Background(), db, nil, database.SeedOptions{}))

	var n int64
	require.NoError(t, db.Model(&model.User{}).Count(&n).Error)
	assert.Zero(t, n)
}
