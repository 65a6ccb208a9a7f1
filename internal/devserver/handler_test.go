package devserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpath/studysync/internal/logger"
	"github.com/brightpath/studysync/models"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(NewHandler(logger.Nop()).Routes())
	t.Cleanup(server.Close)

	return server
}

func TestPutThenGetEntity(t *testing.T) {
	server := newTestServer(t)

	body, err := json.Marshal(models.RemoteEntity{Payload: []byte(`{"message_count":2}`)})
	require.NoError(t, err)

	request, err := http.NewRequest(http.MethodPut, server.URL+"/api/entities/conversation/c-1", bytes.NewReader(body))
	require.NoError(t, err)

	response, err := server.Client().Do(request)
	require.NoError(t, err)
	defer response.Body.Close()

	require.Equal(t, http.StatusOK, response.StatusCode)

	var put models.PutResult
	require.NoError(t, json.NewDecoder(response.Body).Decode(&put))
	assert.False(t, put.RemoteModifiedAt.IsZero())

	getResponse, err := server.Client().Get(server.URL + "/api/entities/conversation/c-1")
	require.NoError(t, err)
	defer getResponse.Body.Close()

	require.Equal(t, http.StatusOK, getResponse.StatusCode)

	var entity models.RemoteEntity
	require.NoError(t, json.NewDecoder(getResponse.Body).Decode(&entity))
	assert.JSONEq(t, `{"message_count":2}`, string(entity.Payload))
	require.NotNil(t, entity.RemoteModifiedAt)
	assert.True(t, put.RemoteModifiedAt.Equal(*entity.RemoteModifiedAt))
}

func TestGetEntity_Unknown(t *testing.T) {
	server := newTestServer(t)

	response, err := server.Client().Get(server.URL + "/api/entities/profile/missing")
	require.NoError(t, err)
	defer response.Body.Close()

	assert.Equal(t, http.StatusNotFound, response.StatusCode)
}

func TestPutEntity_InvalidBody(t *testing.T) {
	server := newTestServer(t)

	request, err := http.NewRequest(http.MethodPut, server.URL+"/api/entities/conversation/c-1", bytes.NewReader([]byte("not json")))
	require.NoError(t, err)

	response, err := server.Client().Do(request)
	require.NoError(t, err)
	defer response.Body.Close()

	assert.Equal(t, http.StatusBadRequest, response.StatusCode)
}
