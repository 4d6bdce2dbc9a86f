package presenter

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func newTestPresenter() (*Presenter, *bytes.Buffer, *bytes.Buffer) {
	var out, errW bytes.Buffer
	return NewWithOptions(&out, &errW, ColorNever), &out, &errW
}

func TestError(t *testing.T) {
	p, out, errW := newTestPresenter()

	p.Error(errors.New("boom"), "loading command")

	assert.Empty(t, out.String())
	assert.Contains(t, errW.String(), "[ERROR] loading command: boom")
}

func TestError_NilIsNoop(t *testing.T) {
	p, _, errW := newTestPresenter()
	p.Error(nil, "context")
	assert.Empty(t, errW.String())
}

func TestSuccessWarningInfo(t *testing.T) {
	p, out, _ := newTestPresenter()

	p.Success("installed")
	p.Warning("deprecated key")
	p.Info("done")

	s := out.String()
	assert.Contains(t, s, "✓ installed")
	assert.Contains(t, s, "⚠ deprecated key")
	assert.Contains(t, s, "done\n")
}

func TestSection(t *testing.T) {
	p, out, _ := newTestPresenter()

	p.Section("Commands")

	assert.Contains(t, out.String(), "Commands\n--------\n")
}

func TestQuietSuppressesAllButErrors(t *testing.T) {
	p, out, errW := newTestPresenter()
	p.SetQuiet(true)

	p.Success("hidden")
	p.Warning("hidden")
	p.Info("hidden")
	p.Section("hidden")
	p.Separator()
	p.Error(errors.New("visible"), "")

	assert.Empty(t, out.String())
	assert.Contains(t, errW.String(), "visible")
	assert.True(t, p.IsQuiet())
}
