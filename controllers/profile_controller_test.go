package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/noteshub/noteshub-api/models"
	"github.com/stretchr/testify/assert"
)

func setupProfileRouter(viewer *models.Account) *gin.Engine {
	router := setupTestRouter()
	authed := router.Group("/profile", mockAuthMiddleware(viewer))
	authed.GET("", GetMyProfile)
	authed.POST("", CreateProfile)
	return router
}

func createProfileRequest(t *testing.T, router *gin.Engine, body map[string]interface{}) (int, map[string]interface{}) {
	t.Helper()

	payload, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, "/profile", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	return w.Code, response
}

func TestCreateProfile(t *testing.T) {
	db := setupTestDB(t)
	account := createTestAccount(t, db, "555", "Student")
	router := setupProfileRouter(account)

	valid := map[string]interface{}{
		"student_id": "S100",
		"college":    "Test College",
		"department": "Computer Science",
		"year":       2,
		"bio":        "Second year CS",
	}

	code, response := createProfileRequest(t, router, valid)
	assert.Equal(t, http.StatusCreated, code)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "S100", data["student_id"])
	assert.Equal(t, "Student", data["user_name"])
	assert.Equal(t, "555", data["phone"])
	assert.Equal(t, float64(0), data["rating"])

	// Second profile for the same account conflicts
	code, response = createProfileRequest(t, router, valid)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "PROFILE_EXISTS", response["error"].(map[string]interface{})["code"])

	// Student IDs are globally unique
	other := createTestAccount(t, db, "666", "Other")
	otherRouter := setupProfileRouter(other)
	code, response = createProfileRequest(t, otherRouter, valid)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "PROFILE_EXISTS", response["error"].(map[string]interface{})["code"])

	// Year outside 1..4 is rejected
	invalid := map[string]interface{}{
		"student_id": "S300",
		"college":    "Test College",
		"department": "Computer Science",
		"year":       5,
	}
	code, response = createProfileRequest(t, otherRouter, invalid)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", response["error"].(map[string]interface{})["code"])
}

func TestGetMyProfile(t *testing.T) {
	db := setupTestDB(t)
	account := createTestAccount(t, db, "555", "Student")
	router := setupProfileRouter(account)

	// No profile yet
	code, response := getJSON(t, router, "/profile")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "PROFILE_NOT_FOUND", response["error"].(map[string]interface{})["code"])

	db.Create(&models.Profile{
		AccountID: account.ID,
		StudentID: "S100",
		College:   "Test College",
		Year:      3,
	})

	code, response = getJSON(t, router, "/profile")
	assert.Equal(t, http.StatusOK, code)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "S100", data["student_id"])
	assert.Equal(t, float64(3), data["year"])
	assert.Equal(t, "Student", data["user_name"])
}

func TestListSubjects(t *testing.T) {
	db := setupTestDB(t)
	createTestSubject(t, db, "Physics", "PH101")
	createTestSubject(t, db, "Algorithms", "CS201")
	createTestSubject(t, db, "Maths", "MA101")

	router := setupTestRouter()
	router.GET("/subjects", ListSubjects)

	code, response := getJSON(t, router, "/subjects")
	assert.Equal(t, http.StatusOK, code)

	subjects := response["data"].([]interface{})
	assert.Len(t, subjects, 3)

	// Alphabetical by name
	names := make([]string, 0, len(subjects))
	for _, s := range subjects {
		names = append(names, s.(map[string]interface{})["name"].(string))
	}
	assert.Equal(t, []string{"Algorithms", "Maths", "Physics"}, names)
}
