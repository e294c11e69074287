package postgres_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/shelf-api/internal/domain"
	"github.com/phrazzld/shelf-api/internal/platform/postgres"
	"github.com/phrazzld/shelf-api/internal/service/auth"
	"github.com/phrazzld/shelf-api/internal/store"
	"github.com/phrazzld/shelf-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestUser(t *testing.T, tx *sql.Tx, email string) *domain.User {
	t.Helper()
	u, err := domain.NewUser(email, "password123")
	require.NoError(t, err)
	u.HashedPassword = "$2a$10$abcdefghijklmnopqrstuuvwxyzABCDEFGHIJKLMNOPQRSTUVWXY"
	u.Password = ""
	require.NoError(t, postgres.NewPostgresUserStore(tx, nil).Create(context.Background(), u))
	return u
}

func TestUserStoreIntegration(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		users := postgres.NewPostgresUserStore(tx, nil)
		email := "it-" + uuid.NewString()[:8] + "@example.com"

		u := createTestUser(t, tx, email)

		got, err := users.GetByEmail(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
		assert.True(t, got.IsActive)

		dup, err := domain.NewUser(email, "password123")
		require.NoError(t, err)
		dup.HashedPassword = "x"
		assert.ErrorIs(t, users.Create(ctx, dup), store.ErrEmailExists)

		got.IsActive = false
		got.FirstName = "Grace"
		require.NoError(t, users.Update(ctx, got))

		again, err := users.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.False(t, again.IsActive)
		assert.Equal(t, "Grace", again.FirstName)

		_, err = users.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestTokenStoreIntegration(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		tokens := postgres.NewPostgresTokenStore(tx, nil)
		u := createTestUser(t, tx, "tok-"+uuid.NewString()[:8]+"@example.com")

		first, err := tokens.GetOrCreate(ctx, &domain.Token{Key: newKey(t, auth.DefaultTokenBytes), UserID: u.ID})
		require.NoError(t, err)

		second, err := tokens.GetOrCreate(ctx, &domain.Token{Key: newKey(t, auth.DefaultTokenBytes), UserID: u.ID})
		require.NoError(t, err)
		assert.Equal(t, first.Key, second.Key, "one token per user")

		byKey, err := tokens.GetByKey(ctx, first.Key)
		require.NoError(t, err)
		assert.Equal(t, u.ID, byKey.UserID)

		require.NoError(t, tokens.DeleteByKey(ctx, first.Key))
		_, err = tokens.GetByKey(ctx, first.Key)
		assert.ErrorIs(t, err, store.ErrTokenNotFound)
		assert.ErrorIs(t, tokens.DeleteByKey(ctx, first.Key), store.ErrTokenNotFound)

		assert.NoError(t, tokens.DeleteByUserID(ctx, u.ID))
	})
}

func newKey(t *testing.T, n int) string {
	t.Helper()
	key, err := auth.GenerateKey(n)
	require.NoError(t, err)
	return key
}

// Keys of every configurable length round-trip without padding.
func TestTokenStoreKeyLengths(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	for _, n := range []int{auth.MinTokenBytes, auth.DefaultTokenBytes, auth.MaxTokenBytes} {
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			ctx := context.Background()
			tokens := postgres.NewPostgresTokenStore(tx, nil)
			u := createTestUser(t, tx, "len-"+uuid.NewString()[:8]+"@example.com")

			key := newKey(t, n)
			created, err := tokens.GetOrCreate(ctx, &domain.Token{Key: key, UserID: u.ID})
			require.NoError(t, err)
			assert.Equal(t, key, created.Key)

			found, err := tokens.GetByKey(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, u.ID, found.UserID)
		})
	}
}

// Concurrent logins for the same user must converge on a single token.
func TestTokenStoreConcurrentGetOrCreate(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	ctx := context.Background()

	users := postgres.NewPostgresUserStore(db, nil)
	u, err := domain.NewUser("race-"+uuid.NewString()[:8]+"@example.com", "password123")
	require.NoError(t, err)
	u.HashedPassword = "x"
	require.NoError(t, users.Create(ctx, u))
	t.Cleanup(func() {
		_, _ = db.Exec(`DELETE FROM users WHERE id = $1`, u.ID)
	})

	tokens := postgres.NewPostgresTokenStore(db, nil)
	candidates := make([]string, 8)
	for i := range candidates {
		candidates[i] = newKey(t, auth.DefaultTokenBytes)
	}
	keys := make([]string, len(candidates))
	var wg sync.WaitGroup
	for i := range keys {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tok, err := tokens.GetOrCreate(ctx, &domain.Token{
				Key:    candidates[i],
				UserID: u.ID,
			})
			if assert.NoError(t, err) {
				keys[i] = tok.Key
			}
		}(i)
	}
	wg.Wait()

	for _, k := range keys {
		assert.Equal(t, keys[0], k)
	}
}

func TestCatalogStoresIntegration(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		owner := createTestUser(t, tx, "cat-"+uuid.NewString()[:8]+"@example.com")

		authors := postgres.NewPostgresAuthorStore(tx, nil)
		books := postgres.NewPostgresBookStore(tx, nil)
		links := postgres.NewPostgresBookAuthorStore(tx, nil)

		author, err := domain.NewAuthor("Ursula K. Le Guin", "", nil)
		require.NoError(t, err)
		require.NoError(t, authors.Create(ctx, author))

		book, err := domain.NewBook("The Dispossessed", "", owner.ID)
		require.NoError(t, err)
		require.NoError(t, books.Create(ctx, book))

		link, err := domain.NewBookAuthor(book.ID, author.ID)
		require.NoError(t, err)
		require.NoError(t, links.Create(ctx, link))

		// Duplicate pairs are accepted.
		dupLink, err := domain.NewBookAuthor(book.ID, author.ID)
		require.NoError(t, err)
		require.NoError(t, links.Create(ctx, dupLink))

		byBook, err := links.List(ctx, store.BookAuthorFilter{BookID: &book.ID})
		require.NoError(t, err)
		assert.Len(t, byBook, 2)

		bad, err := domain.NewBookAuthor(uuid.New(), author.ID)
		require.NoError(t, err)
		assert.ErrorIs(t, links.Create(ctx, bad), store.ErrInvalidEntity)

		// Deleting the book cascades to its associations.
		require.NoError(t, books.Delete(ctx, book.ID))
		_, err = links.GetByID(ctx, link.ID)
		assert.ErrorIs(t, err, store.ErrBookAuthorNotFound)

		require.NoError(t, authors.Delete(ctx, author.ID))
		_, err = authors.GetByID(ctx, author.ID)
		assert.ErrorIs(t, err, store.ErrAuthorNotFound)
	})
}
