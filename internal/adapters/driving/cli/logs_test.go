package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogsCmd_PrintsStages(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf, err := execute("logs", testDocID)

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "text_extraction")
	assert.Contains(t, buf.String(), "chunking")
	assert.Contains(t, buf.String(), "completed")
}

func TestLogsCmd_EmptyLog(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	documentStore = &fakeDocumentStore{}

	buf, err := execute("logs", testDocID)

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "No processing log")
}

func TestLogsCmd_StoreError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	documentStore = &fakeDocumentStore{err: errFake}

	_, err := execute("logs", testDocID)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "reading processing log")
}

func TestLogsCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() { logsJSON = false }()

	buf, err := execute("logs", "--json", testDocID)

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), `"Stage"`)
}
