package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError_PassesThroughDomainErrors(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewQuotaExceeded("Limit reached. Upgrade to continue."))

	de := ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, CodeQuotaExceeded, de.Code)
	assert.Equal(t, http.StatusOK, de.HTTPStatus)
	assert.Equal(t, "Limit reached. Upgrade to continue.", de.Message)
}

func TestToDomainError_NoRowsIsNotFound(t *testing.T) {
	de := ToDomainError(pgx.ErrNoRows)
	assert.Equal(t, CodeNotFound, de.Code)
}

func TestToDomainError_UnknownKeepsMessage(t *testing.T) {
	de := ToDomainError(errors.New("upstream exploded"))
	assert.Equal(t, CodeInternal, de.Code)
	assert.Equal(t, "upstream exploded", de.Message)
}

func TestUnauthorizedUses401(t *testing.T) {
	de := ToDomainError(NewUnauthorized("missing authorization header"))
	assert.Equal(t, http.StatusUnauthorized, de.HTTPStatus)
	assert.True(t, IsCode(de, CodeUnauthorized))
}

func TestUpstreamErrorIsVerbatim(t *testing.T) {
	cause := errors.New("Image generation failed")
	err := NewUpstreamError(cause)

	assert.Equal(t, "Image generation failed: Image generation failed", err.Error())
	assert.Equal(t, "Image generation failed", ToDomainError(err).Message)
	assert.ErrorIs(t, err, cause)
}

func TestMapError(t *testing.T) {
	assert.NoError(t, MapError(nil))

	err := MapError(fmt.Errorf("scan: %w", pgx.ErrNoRows))
	assert.True(t, IsCode(err, CodeNotFound))

	err = MapError(errors.New("disk full"))
	var domainErr *DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, CodeInternal, domainErr.Code)
	assert.Equal(t, "disk full", domainErr.Message)
	assert.Equal(t, http.StatusOK, domainErr.HTTPStatus)
}
