package e2e

import (
	"github.com/cucumber/godog"

	"neuroaccess/e2e/steps/common"
	"neuroaccess/e2e/steps/onboarding"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Background, health and generic response assertions
	common.RegisterSteps(ctx, tc)

	// Grading, validation and admin steps
	onboarding.RegisterSteps(ctx, tc)
}
