package onboarding

import (
	"encoding/json"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
	PUT(path string, body any, headers map[string]string) error
	GET(path string, headers map[string]string) error
	GetAdminToken() string
	GetLastResponseBody() []byte
}

// RegisterSteps registers grading, validation and admin steps
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &onboardingSteps{tc: tc}

	ctx.Step(`^an application with claims:$`, steps.applicationWithClaims)
	ctx.Step(`^the application has a photo attached$`, steps.applicationHasPhoto)
	ctx.Step(`^I request the application's grade$`, steps.requestGrade)
	ctx.Step(`^I submit the application for validation$`, steps.submitForValidation)
	ctx.Step(`^the application should be (valid|invalid)$`, steps.applicationShouldBe)
	ctx.Step(`^the errors should include "([^"]*)" on claim "([^"]*)"$`, steps.errorsShouldIncludeOnClaim)
	ctx.Step(`^the errors should include "([^"]*)"$`, steps.errorsShouldInclude)

	ctx.Step(`^I set the onboarding domain to "([^"]*)" with the admin token$`, steps.setOnboardingDomain)
	ctx.Step(`^I read the onboarding settings with the admin token$`, steps.readOnboardingSettings)
	ctx.Step(`^I read the onboarding settings without a token$`, steps.readOnboardingSettingsWithoutToken)
}

type claim struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type photo struct {
	ID string `json:"id"`
}

type validationError struct {
	Code  string `json:"code"`
	Claim string `json:"claim"`
}

type onboardingSteps struct {
	tc     TestContext
	claims []claim
	photos []photo
}

func (s *onboardingSteps) applicationWithClaims(table *godog.Table) error {
	s.claims = nil
	s.photos = nil
	for i, row := range table.Rows {
		if i == 0 {
			continue // header
		}
		if len(row.Cells) != 2 {
			return fmt.Errorf("claim rows need key and value, got %d cells", len(row.Cells))
		}
		s.claims = append(s.claims, claim{Key: row.Cells[0].Value, Value: row.Cells[1].Value})
	}
	return nil
}

func (s *onboardingSteps) applicationHasPhoto() error {
	s.photos = append(s.photos, photo{ID: fmt.Sprintf("photo-%d", len(s.photos)+1)})
	return nil
}

func (s *onboardingSteps) body() map[string]any {
	body := map[string]any{"claims": s.claims}
	if len(s.photos) > 0 {
		body["photos"] = s.photos
	}
	return body
}

func (s *onboardingSteps) requestGrade() error {
	return s.tc.POST("/v1/applications/grade", s.body())
}

func (s *onboardingSteps) submitForValidation() error {
	return s.tc.POST("/v1/applications/validate", s.body())
}

func (s *onboardingSteps) verdict() (bool, []validationError, error) {
	var resp struct {
		Valid  bool              `json:"valid"`
		Errors []validationError `json:"errors"`
	}
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &resp); err != nil {
		return false, nil, fmt.Errorf("decode validation response: %w", err)
	}
	return resp.Valid, resp.Errors, nil
}

func (s *onboardingSteps) applicationShouldBe(expected string) error {
	valid, errs, err := s.verdict()
	if err != nil {
		return err
	}
	if valid != (expected == "valid") {
		return fmt.Errorf("expected application to be %s, errors: %+v", expected, errs)
	}
	return nil
}

func (s *onboardingSteps) errorsShouldIncludeOnClaim(code, claimKey string) error {
	_, errs, err := s.verdict()
	if err != nil {
		return err
	}
	for _, e := range errs {
		if e.Code == code && e.Claim == claimKey {
			return nil
		}
	}
	return fmt.Errorf("no %s error on %s in %+v", code, claimKey, errs)
}

func (s *onboardingSteps) errorsShouldInclude(code string) error {
	_, errs, err := s.verdict()
	if err != nil {
		return err
	}
	for _, e := range errs {
		if e.Code == code {
			return nil
		}
	}
	return fmt.Errorf("no %s error in %+v", code, errs)
}

func (s *onboardingSteps) adminHeaders() map[string]string {
	return map[string]string{"X-Admin-Token": s.tc.GetAdminToken()}
}

func (s *onboardingSteps) setOnboardingDomain(domain string) error {
	return s.tc.PUT("/v1/admin/onboarding/domain", map[string]string{"domain": domain}, s.adminHeaders())
}

func (s *onboardingSteps) readOnboardingSettings() error {
	return s.tc.GET("/v1/admin/onboarding/", s.adminHeaders())
}

func (s *onboardingSteps) readOnboardingSettingsWithoutToken() error {
	return s.tc.GET("/v1/admin/onboarding/", nil)
}
