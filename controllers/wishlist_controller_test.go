package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/noteshub/noteshub-api/models"
	"github.com/stretchr/testify/assert"
)

func setupWishlistRouter(viewer *models.Account) *gin.Engine {
	router := setupTestRouter()
	authed := router.Group("/wishlist", mockAuthMiddleware(viewer))
	authed.GET("", ListWishlist)
	authed.POST("/add", AddToWishlist)
	authed.DELETE("/:id", RemoveFromWishlist)
	return router
}

func TestAddToWishlist(t *testing.T) {
	db := setupTestDB(t)
	seller := createTestAccount(t, db, "555", "Seller")
	viewer := createTestAccount(t, db, "666", "Viewer")
	subject := createTestSubject(t, db, "Maths", "MA101")
	note := createTestNote(t, db, seller, subject, testNote{Title: "Calculus", Approved: true})

	router := setupWishlistRouter(viewer)

	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "Successfully add note",
			requestBody:    map[string]interface{}{"note_id": note.ID.String()},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Fail on duplicate add",
			requestBody:    map[string]interface{}{"note_id": note.ID.String()},
			expectedStatus: http.StatusConflict,
			expectedError:  "ALREADY_IN_WISHLIST",
		},
		{
			name:           "Fail with unknown note",
			requestBody:    map[string]interface{}{"note_id": "00000000-0000-0000-0000-000000000000"},
			expectedStatus: http.StatusNotFound,
			expectedError:  "NOTE_NOT_FOUND",
		},
		{
			name:           "Fail with malformed note ID",
			requestBody:    map[string]interface{}{"note_id": "not-a-uuid"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:           "Fail with missing note ID",
			requestBody:    map[string]interface{}{},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.requestBody)
			req, _ := http.NewRequest(http.MethodPost, "/wishlist/add", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			err := json.Unmarshal(w.Body.Bytes(), &response)
			assert.NoError(t, err)

			if tt.expectedError != "" {
				errorData := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedError, errorData["code"])
				return
			}

			data := response["data"].(map[string]interface{})
			entry := data["note"].(map[string]interface{})
			assert.Equal(t, note.Title, entry["title"])
			// The note is in the caller's wishlist now, so the payload says so
			assert.Equal(t, true, entry["in_wishlist"])
		})
	}

	var count int64
	db.Model(&models.WishlistItem{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestReAddAfterRemove(t *testing.T) {
	db := setupTestDB(t)
	seller := createTestAccount(t, db, "555", "Seller")
	viewer := createTestAccount(t, db, "666", "Viewer")
	subject := createTestSubject(t, db, "Maths", "MA101")
	note := createTestNote(t, db, seller, subject, testNote{Title: "Calculus", Approved: true})

	router := setupWishlistRouter(viewer)

	addNote := func() (int, map[string]interface{}) {
		body, _ := json.Marshal(map[string]interface{}{"note_id": note.ID.String()})
		req, _ := http.NewRequest(http.MethodPost, "/wishlist/add", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var response map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &response)
		return w.Code, response
	}

	code, response := addNote()
	assert.Equal(t, http.StatusCreated, code)
	entryID := response["data"].(map[string]interface{})["id"].(float64)

	req, _ := http.NewRequest(http.MethodDelete, fmt.Sprintf("/wishlist/%d", int(entryID)), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Removing an entry frees the (viewer, note) pair for a fresh add
	code, _ = addNote()
	assert.Equal(t, http.StatusCreated, code)

	var count int64
	db.Model(&models.WishlistItem{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestListWishlist(t *testing.T) {
	db := setupTestDB(t)
	seller := createTestAccount(t, db, "555", "Seller")
	viewer := createTestAccount(t, db, "666", "Viewer")
	other := createTestAccount(t, db, "777", "Other")
	subject := createTestSubject(t, db, "Maths", "MA101")

	first := createTestNote(t, db, seller, subject, testNote{Title: "Calculus", Approved: true})
	second := createTestNote(t, db, seller, subject, testNote{Title: "Algebra", Approved: true})
	foreign := createTestNote(t, db, seller, subject, testNote{Title: "Geometry", Approved: true})

	db.Create(&models.WishlistItem{UserID: viewer.ID, NoteID: first.ID})
	db.Create(&models.WishlistItem{UserID: viewer.ID, NoteID: second.ID})
	db.Create(&models.WishlistItem{UserID: other.ID, NoteID: foreign.ID})

	router := setupWishlistRouter(viewer)

	req, _ := http.NewRequest(http.MethodGet, "/wishlist", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)

	entries := response["data"].([]interface{})
	assert.Len(t, entries, 2)

	titles := make([]string, 0, len(entries))
	for _, e := range entries {
		entry := e.(map[string]interface{})
		note := entry["note"].(map[string]interface{})
		titles = append(titles, note["title"].(string))
		assert.Equal(t, true, note["in_wishlist"])
	}
	assert.ElementsMatch(t, []string{"Calculus", "Algebra"}, titles)
}

func TestRemoveFromWishlist(t *testing.T) {
	db := setupTestDB(t)
	seller := createTestAccount(t, db, "555", "Seller")
	viewer := createTestAccount(t, db, "666", "Viewer")
	other := createTestAccount(t, db, "777", "Other")
	subject := createTestSubject(t, db, "Maths", "MA101")
	note := createTestNote(t, db, seller, subject, testNote{Title: "Calculus", Approved: true})

	mine := models.WishlistItem{UserID: viewer.ID, NoteID: note.ID}
	db.Create(&mine)
	theirs := models.WishlistItem{UserID: other.ID, NoteID: note.ID}
	db.Create(&theirs)

	router := setupWishlistRouter(viewer)

	deleteEntry := func(id string) (int, map[string]interface{}) {
		req, _ := http.NewRequest(http.MethodDelete, "/wishlist/"+id, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var response map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &response)
		return w.Code, response
	}

	// Another user's entry looks like a missing one
	code, response := deleteEntry(fmt.Sprintf("%d", theirs.ID))
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "WISHLIST_ITEM_NOT_FOUND", response["error"].(map[string]interface{})["code"])

	code, _ = deleteEntry("abc")
	assert.Equal(t, http.StatusBadRequest, code)

	code, response = deleteEntry(fmt.Sprintf("%d", mine.ID))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, response["success"])

	// Deleting twice reports not found
	code, _ = deleteEntry(fmt.Sprintf("%d", mine.ID))
	assert.Equal(t, http.StatusNotFound, code)

	var count int64
	db.Model(&models.WishlistItem{}).Count(&count)
	assert.Equal(t, int64(1), count)
}
