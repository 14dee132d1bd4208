package handlers_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/dzyusuf20/voting-appAPI/internal/auth"
	"github.com/dzyusuf20/voting-appAPI/internal/database"
	"github.com/dzyusuf20/voting-appAPI/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type generateResponse struct {
	Accounts []struct {
		Username string `json:"username"`
		Password string `json:"password"`
	} `json:"accounts"`
}

func TestGeneratePeserta(t *testing.T) {
	r := setupServer(t)
	admin := createAdmin(t, "admin1")

	w := doRequest(t, r, "POST", "/generate-peserta/", tokenFor(t, admin), map[string]interface{}{
		"jumlah": 5,
		"prefix": "x",
	})
	assertStatus(t, w, http.StatusCreated)

	var resp generateResponse
	decodeBody(t, w, &resp)
	require.Len(t, resp.Accounts, 5)

	seen := map[string]bool{}
	for _, acc := range resp.Accounts {
		assert.True(t, strings.HasPrefix(acc.Username, "x"), "username %q", acc.Username)
		assert.Len(t, acc.Username, 6) // prefix + 5 digits
		assert.Len(t, acc.Password, 8)
		assert.False(t, seen[acc.Username], "duplicate username %q", acc.Username)
		seen[acc.Username] = true

		var u models.User
		require.NoError(t, database.DB.Where("username = ?", acc.Username).First(&u).Error)
		assert.Equal(t, models.RolePeserta, u.Role)
		assert.True(t, u.MustChangePassword)
		require.NotNil(t, u.AdminOwnerID)
		assert.Equal(t, admin.ID, *u.AdminOwnerID)

		// the returned plaintext password must actually log in
		assert.NoError(t, auth.CheckPassword(acc.Password, u.PasswordHash))
	}
}

func TestGeneratePesertaDefaultPrefix(t *testing.T) {
	r := setupServer(t)
	admin := createAdmin(t, "admin1")

	w := doRequest(t, r, "POST", "/generate-peserta/", tokenFor(t, admin), map[string]interface{}{
		"jumlah": 1,
	})
	assertStatus(t, w, http.StatusCreated)

	var resp generateResponse
	decodeBody(t, w, &resp)
	require.Len(t, resp.Accounts, 1)
	assert.True(t, strings.HasPrefix(resp.Accounts[0].Username, "peserta"))
}

func TestGeneratePesertaCountBounds(t *testing.T) {
	r := setupServer(t)
	admin := createAdmin(t, "admin1")
	token := tokenFor(t, admin)

	for _, jumlah := range []int{0, -1, 501} {
		w := doRequest(t, r, "POST", "/generate-peserta/", token, map[string]interface{}{
			"jumlah": jumlah,
		})
		assertStatus(t, w, http.StatusBadRequest)
	}

	var count int64
	database.DB.Model(&models.User{}).Where("role = ?", models.RolePeserta).Count(&count)
	assert.Zero(t, count)
}

func TestGeneratePesertaRequiresAdmin(t *testing.T) {
	r := setupServer(t)
	admin := createAdmin(t, "admin1")
	peserta := createPeserta(t, admin, "peserta00001")

	w := doRequest(t, r, "POST", "/generate-peserta/", tokenFor(t, peserta), map[string]interface{}{
		"jumlah": 1,
	})
	assertStatus(t, w, http.StatusForbidden)

	w = doRequest(t, r, "POST", "/generate-peserta/", "", map[string]interface{}{
		"jumlah": 1,
	})
	assertStatus(t, w, http.StatusUnauthorized)
}

type pesertaPage struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []struct {
		ID                 uint   `json:"id"`
		Username           string `json:"username"`
		MustChangePassword bool   `json:"must_change_password"`
		DateJoined         string `json:"date_joined"`
		SudahVote          bool   `json:"sudah_vote"`
	} `json:"results"`
}

func TestListPesertaPagination(t *testing.T) {
	r := setupServer(t)
	admin := createAdmin(t, "admin1")
	token := tokenFor(t, admin)

	for i := 0; i < 13; i++ {
		createPeserta(t, admin, fmt.Sprintf("peserta%05d", i))
	}

	w := doRequest(t, r, "GET", "/peserta/", token, nil)
	assertStatus(t, w, http.StatusOK)

	var page1 pesertaPage
	decodeBody(t, w, &page1)
	assert.EqualValues(t, 13, page1.Count)
	require.Len(t, page1.Results, 10)
	require.NotNil(t, page1.Next)
	assert.Nil(t, page1.Previous)
	assert.Contains(t, *page1.Next, "page=2")

	// ordered by join time ascending
	assert.Equal(t, "peserta00000", page1.Results[0].Username)
	assert.NotEmpty(t, page1.Results[0].DateJoined)

	w = doRequest(t, r, "GET", "/peserta/?page=2", token, nil)
	assertStatus(t, w, http.StatusOK)

	var page2 pesertaPage
	decodeBody(t, w, &page2)
	assert.EqualValues(t, 13, page2.Count)
	require.Len(t, page2.Results, 3)
	assert.Nil(t, page2.Next)
	require.NotNil(t, page2.Previous)
	assert.Equal(t, "peserta00012", page2.Results[2].Username)

	w = doRequest(t, r, "GET", "/peserta/?page=3", token, nil)
	assertStatus(t, w, http.StatusNotFound)

	w = doRequest(t, r, "GET", "/peserta/?page=abc", token, nil)
	assertStatus(t, w, http.StatusNotFound)
}

func TestListPesertaScopedToOwner(t *testing.T) {
	r := setupServer(t)
	adminA := createAdmin(t, "adminA")
	adminB := createAdmin(t, "adminB")
	createPeserta(t, adminA, "peserta0000a")
	createPeserta(t, adminB, "peserta0000b")

	w := doRequest(t, r, "GET", "/peserta/", tokenFor(t, adminA), nil)
	assertStatus(t, w, http.StatusOK)

	var page pesertaPage
	decodeBody(t, w, &page)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "peserta0000a", page.Results[0].Username)
}

func TestListPesertaSudahVoteFilter(t *testing.T) {
	r := setupServer(t)
	admin := createAdmin(t, "admin1")
	kandidat := createKandidat(t, admin, "Budi")
	voted := createPeserta(t, admin, "peserta0voted")
	createPeserta(t, admin, "peserta0fresh")
	require.NoError(t, database.DB.Create(&models.Vote{VoterID: voted.ID, KandidatID: kandidat.ID}).Error)

	token := tokenFor(t, admin)

	w := doRequest(t, r, "GET", "/peserta/?sudah_vote=true", token, nil)
	assertStatus(t, w, http.StatusOK)
	var page pesertaPage
	decodeBody(t, w, &page)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "peserta0voted", page.Results[0].Username)
	assert.True(t, page.Results[0].SudahVote)

	w = doRequest(t, r, "GET", "/peserta/?sudah_vote=false", token, nil)
	assertStatus(t, w, http.StatusOK)
	decodeBody(t, w, &page)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "peserta0fresh", page.Results[0].Username)
	assert.False(t, page.Results[0].SudahVote)

	w = doRequest(t, r, "GET", "/peserta/?sudah_vote=maybe", token, nil)
	assertStatus(t, w, http.StatusBadRequest)
}

func TestListPesertaForbiddenForPeserta(t *testing.T) {
	r := setupServer(t)
	admin := createAdmin(t, "admin1")
	peserta := createPeserta(t, admin, "peserta00001")

	w := doRequest(t, r, "GET", "/peserta/", tokenFor(t, peserta), nil)
	assertStatus(t, w, http.StatusForbidden)
}

func TestDeletePeserta(t *testing.T) {
	r := setupServer(t)
	admin := createAdmin(t, "admin1")
	kandidat := createKandidat(t, admin, "Budi")
	peserta := createPeserta(t, admin, "peserta00001")
	require.NoError(t, database.DB.Create(&models.Vote{VoterID: peserta.ID, KandidatID: kandidat.ID}).Error)

	w := doRequest(t, r, "DELETE", fmt.Sprintf("/peserta/%d/", peserta.ID), tokenFor(t, admin), nil)
	assertStatus(t, w, http.StatusNoContent)

	var count int64
	database.DB.Model(&models.User{}).Where("id = ?", peserta.ID).Count(&count)
	assert.Zero(t, count)

	// the peserta's vote goes with them
	assert.Zero(t, countVotes(t))
}

func TestDeletePesertaOtherTenantReportsNotFound(t *testing.T) {
	r := setupServer(t)
	adminA := createAdmin(t, "adminA")
	adminB := createAdmin(t, "adminB")
	peserta := createPeserta(t, adminB, "peserta0000b")

	w := doRequest(t, r, "DELETE", fmt.Sprintf("/peserta/%d/", peserta.ID), tokenFor(t, adminA), nil)
	assertStatus(t, w, http.StatusNotFound)

	var count int64
	database.DB.Model(&models.User{}).Where("id = ?", peserta.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestDeletePesertaMissing(t *testing.T) {
	r := setupServer(t)
	admin := createAdmin(t, "admin1")

	w := doRequest(t, r, "DELETE", "/peserta/9999/", tokenFor(t, admin), nil)
	assertStatus(t, w, http.StatusNotFound)

	// an admin account is not a deletable peserta
	w = doRequest(t, r, "DELETE", fmt.Sprintf("/peserta/%d/", admin.ID), tokenFor(t, admin), nil)
	assertStatus(t, w, http.StatusNotFound)
}

func TestAdminDeleteDetachesPesertaAndCascadesKandidat(t *testing.T) {
	setupServer(t)
	admin := createAdmin(t, "admin1")
	kandidat := createKandidat(t, admin, "Budi")
	peserta := createPeserta(t, admin, "peserta00001")
	require.NoError(t, database.DB.Create(&models.Vote{VoterID: peserta.ID, KandidatID: kandidat.ID}).Error)

	require.NoError(t, database.DB.Delete(&models.User{}, admin.ID).Error)

	// peserta survives, detached from the deleted room
	var survivor models.User
	require.NoError(t, database.DB.First(&survivor, peserta.ID).Error)
	assert.Nil(t, survivor.AdminOwnerID)

	// kandidat and votes cascade away
	var kandidatCount int64
	database.DB.Model(&models.Kandidat{}).Count(&kandidatCount)
	assert.Zero(t, kandidatCount)
	assert.Zero(t, countVotes(t))
}
