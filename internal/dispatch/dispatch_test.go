package dispatch

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neuroaccess/internal/onboarding/models"
	id "neuroaccess/pkg/domain"
)

type fixedAuthenticator struct {
	name      string
	grade     id.Grade
	validated int
}

func (f *fixedAuthenticator) Name() string { return f.name }

func (f *fixedAuthenticator) Supports(*models.IdentityApplication) id.Grade { return f.grade }

func (f *fixedAuthenticator) Validate(_ context.Context, app *models.IdentityApplication) {
	f.validated++
	app.Apply(models.Accepted())
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFindBest(t *testing.T) {
	app := models.NewIdentityApplication("app-1", nil, nil)

	t.Run("highest grade wins", func(t *testing.T) {
		ok := &fixedAuthenticator{name: "ok", grade: id.GradeOk}
		perfect := &fixedAuthenticator{name: "perfect", grade: id.GradePerfect}
		d := New(discard(), ok, perfect)

		best, grade, err := d.FindBest(app)
		require.NoError(t, err)
		assert.Equal(t, "perfect", best.Name())
		assert.Equal(t, id.GradePerfect, grade)
	})

	t.Run("tie goes to first registered", func(t *testing.T) {
		d := New(discard())
		d.Register(&fixedAuthenticator{name: "first", grade: id.GradeOk})
		d.Register(&fixedAuthenticator{name: "second", grade: id.GradeOk})

		best, _, err := d.FindBest(app)
		require.NoError(t, err)
		assert.Equal(t, "first", best.Name())
	})

	t.Run("nothing supports the application", func(t *testing.T) {
		d := New(discard(), &fixedAuthenticator{name: "none", grade: id.GradeNotAtAll})

		_, _, err := d.FindBest(app)
		assert.ErrorIs(t, err, ErrNoAuthenticator)
	})
}

func TestValidate_DelegatesToBest(t *testing.T) {
	ok := &fixedAuthenticator{name: "ok", grade: id.GradeOk}
	perfect := &fixedAuthenticator{name: "perfect", grade: id.GradePerfect}
	d := New(discard(), ok, perfect)
	app := models.NewIdentityApplication("app-1", nil, nil)

	name, err := d.Validate(context.Background(), app)

	require.NoError(t, err)
	assert.Equal(t, "perfect", name)
	assert.Equal(t, 1, perfect.validated)
	assert.Zero(t, ok.validated)
	assert.Equal(t, models.ValidityValid, app.Validity)
}
