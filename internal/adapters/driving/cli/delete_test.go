package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeleteCmd_DeletesDocument(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf, err := execute("delete", testDocID)

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "deleted")
	assert.Equal(t, testDocID, ingestService.(*fakeIngestService).deletedID)
}

func TestDeleteCmd_NotFound(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	ingestService.(*fakeIngestService).deleteFound = false

	buf, err := execute("delete", testDocID)

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "not found")
}

func TestDeleteCmd_ServiceError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	ingestService.(*fakeIngestService).deleteErr = errFake

	_, err := execute("delete", testDocID)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "delete failed")
}
