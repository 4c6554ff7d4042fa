// Package dispatch routes identity applications to the authenticator best
// able to evaluate them.
package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"neuroaccess/internal/onboarding/models"
	id "neuroaccess/pkg/domain"
)

// ErrNoAuthenticator is returned when every registered authenticator grades
// the application NotAtAll.
var ErrNoAuthenticator = errors.New("no authenticator supports the application")

// Authenticator grades and validates identity applications.
type Authenticator interface {
	Name() string
	Supports(app *models.IdentityApplication) id.Grade
	Validate(ctx context.Context, app *models.IdentityApplication)
}

// Dispatcher keeps authenticators in registration order.
type Dispatcher struct {
	mu             sync.RWMutex
	authenticators []Authenticator
	logger         *slog.Logger
}

func New(logger *slog.Logger, authenticators ...Authenticator) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{authenticators: authenticators, logger: logger}
}

// Register appends an authenticator. Earlier registrations win ties.
func (d *Dispatcher) Register(a Authenticator) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.authenticators = append(d.authenticators, a)
}

// FindBest returns the authenticator with the highest grade for the
// application, or ErrNoAuthenticator.
func (d *Dispatcher) FindBest(app *models.IdentityApplication) (Authenticator, id.Grade, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var (
		best      Authenticator
		bestGrade = id.GradeNotAtAll
	)
	for _, a := range d.authenticators {
		grade := a.Supports(app)
		if grade.Better(bestGrade) {
			best, bestGrade = a, grade
		}
	}
	if best == nil {
		return nil, id.GradeNotAtAll, ErrNoAuthenticator
	}
	return best, bestGrade, nil
}

// Validate hands the application to the best authenticator. The verdict is
// recorded on the application.
func (d *Dispatcher) Validate(ctx context.Context, app *models.IdentityApplication) (string, error) {
	a, grade, err := d.FindBest(app)
	if err != nil {
		d.logger.InfoContext(ctx, "no authenticator for application", "application_id", app.ID)
		return "", err
	}
	d.logger.DebugContext(ctx, "dispatching application",
		"application_id", app.ID,
		"authenticator", a.Name(),
		"grade", grade.String(),
	)
	a.Validate(ctx, app)
	return a.Name(), nil
}
