package sl_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medx-platform/medx-api/internal/lib/sl"
)

func TestErr(t *testing.T) {
	attr := sl.Err(errors.New("boom"))

	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, slog.KindString, attr.Value.Kind())
	assert.Equal(t, "boom", attr.Value.String())
}

func TestDiscard(t *testing.T) {
	log := sl.Discard()
	require.NotNil(t, log)

	// не должно паниковать и ничего не пишет
	log.Info("ignored", slog.String("key", "value"))
	log.Error("ignored too", sl.Err(errors.New("boom")))
}
