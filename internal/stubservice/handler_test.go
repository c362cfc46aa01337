package stubservice_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"disease-predictor/internal/stubservice"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	ds, err := stubservice.DefaultDataset()
	require.NoError(t, err)
	return stubservice.NewRouter(stubservice.NewHandler(ds, zerolog.Nop()))
}

func TestHandler_ListSymptoms(t *testing.T) {
	router := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/symptoms", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	var body struct {
		Symptoms []struct {
			ID    string `json:"id"`
			Label string `json:"label"`
		} `json:"symptoms"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Symptoms)
	assert.Equal(t, "itching", body.Symptoms[0].ID)
	assert.Equal(t, "Nodal Skin Eruptions", body.Symptoms[2].Label)
}

func TestHandler_Predict(t *testing.T) {
	router := newRouter(t)

	post := func(payload string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/predict", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("best overlap wins", func(t *testing.T) {
		w := post(`{"symptoms":["itching","skin_rash"]}`)
		require.Equal(t, http.StatusOK, w.Code)

		var got stubservice.Prediction
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "Fungal infection", got.Disease)
		assert.Len(t, got.Precautions, 4)
	})

	t.Run("missing description gets default", func(t *testing.T) {
		w := post(`{"symptoms":["dizziness"]}`)
		require.Equal(t, http.StatusOK, w.Code)

		var got stubservice.Prediction
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "Migraine", got.Disease)
		assert.Equal(t, "Description not available.", got.Description)
		assert.NotNil(t, got.Precautions)
		assert.Empty(t, got.Precautions)
	})

	t.Run("empty selection", func(t *testing.T) {
		w := post(`{"symptoms":[]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"No symptoms provided"}`, w.Body.String())
	})

	t.Run("invalid body", func(t *testing.T) {
		w := post(`not json`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("nothing overlaps", func(t *testing.T) {
		w := post(`{"symptoms":["unknown_symptom"]}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"error":"No matching disease for the given symptoms"}`, w.Body.String())
	})
}

func TestDataset_Validate(t *testing.T) {
	t.Run("unknown symptom in disease", func(t *testing.T) {
		ds := &stubservice.Dataset{
			Symptoms: []string{"fever"},
			Diseases: []stubservice.Disease{{Name: "Flu", Symptoms: []string{"cough"}}},
		}
		assert.Error(t, ds.Validate())
	})

	t.Run("duplicate symptom", func(t *testing.T) {
		ds := &stubservice.Dataset{
			Symptoms: []string{"fever", "fever"},
			Diseases: []stubservice.Disease{{Name: "Flu"}},
		}
		assert.Error(t, ds.Validate())
	})

	t.Run("tie goes to first disease", func(t *testing.T) {
		ds := &stubservice.Dataset{
			Symptoms: []string{"fever", "cough"},
			Diseases: []stubservice.Disease{
				{Name: "Flu", Symptoms: []string{"fever"}},
				{Name: "Cold", Symptoms: []string{"fever", "cough"}},
			},
		}
		require.NoError(t, ds.Validate())
		p, ok := ds.Predict([]string{"fever"})
		require.True(t, ok)
		assert.Equal(t, "Flu", p.Disease)
	})
}
