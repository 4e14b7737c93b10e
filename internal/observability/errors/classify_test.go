package errors

import (
	goerrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/target/bayflow/internal/errors"
)

type customErr struct{}

func (customErr) Error() string { return "custom" }

func TestClassify(t *testing.T) {
	assert.Empty(t, Classify(nil))
	assert.Equal(t, "routing", Classify(apperrors.Routing(goerrors.New("denied"), "copy failed")))
	assert.Equal(t, "config_lookup", Classify(fmt.Errorf("wrap: %w", apperrors.ConfigLookupf("tenant x"))))
	assert.Equal(t, "errors_customerr", Classify(fmt.Errorf("wrap: %w", customErr{})))
	assert.Equal(t, "errors_errorstring", Classify(goerrors.New("plain")))
}
