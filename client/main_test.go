package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go-firestore-deals/internal/database"
	"go-firestore-deals/internal/model"
	dealRepository "go-firestore-deals/internal/repository/deal"
	userRepository "go-firestore-deals/internal/repository/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSeedFromJson(t *testing.T) {
	file := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(file, []byte(`{
		"users": [{"id": "u1", "displayName": "Ana", "totalDeals": 1}],
		"deals": [{"id": "d1", "userID": "u1", "productText": "Olive oil", "price": 9.99}],
		"comments": [{"id": "c1", "userID": "u1", "itemID": "d1", "commentText": "good", "commentType": "deal"}]
	}`), 0o600))

	db := database.NewMemory(10)
	require.NoError(t, readSeedFromJsonAndSaveToFirestore(context.Background(), db, file))

	user, err := userRepository.New(db).GetById(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Ana", user.DisplayName)
	assert.Equal(t, []string{}, user.SavedDeals)

	deal, err := dealRepository.New(db).GetById(context.Background(), "d1")
	require.NoError(t, err)
	require.NotNil(t, deal)
	assert.Equal(t, 9.99, deal.Price)
}

func TestToBatch_RequiresIds(t *testing.T) {
	_, err := toBatch(seed{Deals: []model.Deal{{ProductText: "no id"}}})
	assert.Error(t, err)

	writes, err := toBatch(seed{Users: []model.UserProfile{{Id: "u1"}}, Deals: []model.Deal{{Id: "d1"}}})
	require.NoError(t, err)
	assert.Len(t, writes, 2)
}
