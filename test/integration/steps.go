package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cucumber/godog"

	"github.com/smokinadorabulls/kennel-cms/pkg/content"
	"github.com/smokinadorabulls/kennel-cms/pkg/document"
	"github.com/smokinadorabulls/kennel-cms/pkg/seed"
)

const restoreDefaultRoles = `
INSERT INTO documents (document_id, collection, status, data)
VALUES
    ('publicroleaaaaaaaaaaaaaa', 'plugin::users-permissions.role', 'draft',
     '{"name": "Public", "type": "public"}'::jsonb),
    ('authenticatedroleaaaaaaa', 'plugin::users-permissions.role', 'draft',
     '{"name": "Authenticated", "type": "authenticated"}'::jsonb)
ON CONFLICT (collection, document_id) DO NOTHING`

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	logs         bytes.Buffer
	result       *seed.Result
	provisionErr error
	response     *http.Response
	responseBody []byte
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{tc: tc}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	// Setup steps
	sc.Step(`^an empty content database$`, s.anEmptyContentDatabase)
	sc.Step(`^the "([^"]*)" role does not exist$`, s.theRoleDoesNotExist)
	sc.Step(`^the public role already has the permission "([^"]*)"$`, s.thePublicRoleAlreadyHasThePermission)
	sc.Step(`^the collection "([^"]*)" already contains:$`, s.theCollectionAlreadyContains)

	// Provisioning steps
	sc.Step(`^the provisioner runs$`, s.theProvisionerRuns)
	sc.Step(`^the provisioner runs with (\d+) featured puppies$`, s.theProvisionerRunsWithFeaturedPuppies)
	sc.Step(`^(\d+) permissions? should have been granted$`, s.permissionsShouldHaveBeenGranted)
	sc.Step(`^the "([^"]*)" role should have (\d+) permissions?$`, s.theRoleShouldHavePermissions)
	sc.Step(`^the collection "([^"]*)" should contain (\d+) documents?$`, s.theCollectionShouldContainDocuments)
	sc.Step(`^the about page should feature (\d+) puppies$`, s.theAboutPageShouldFeaturePuppies)
	sc.Step(`^the log should contain "([^"]*)"$`, s.theLogShouldContain)
	sc.Step(`^the log should not contain "([^"]*)"$`, s.theLogShouldNotContain)

	// API steps
	sc.Step(`^I request "([^"]*)"$`, s.iRequest)
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response should list (\d+) documents?$`, s.theResponseShouldListDocuments)
	sc.Step(`^the response body should contain "([^"]*)"$`, s.theResponseBodyShouldContain)
}

// Setup steps

func (s *StepsContext) anEmptyContentDatabase() error {
	if err := s.tc.DB.Exec(`DELETE FROM documents`).Error; err != nil {
		return err
	}
	return s.tc.DB.Exec(restoreDefaultRoles).Error
}

func (s *StepsContext) theRoleDoesNotExist(roleType string) error {
	return s.tc.DB.Exec(
		`DELETE FROM documents WHERE collection = ? AND data->>'type' = ?`,
		content.RoleUID, roleType,
	).Error
}

func (s *StepsContext) thePublicRoleAlreadyHasThePermission(action string) error {
	ctx := context.Background()
	role, err := seed.FindRole(ctx, s.tc.Store, content.RolePublic)
	if err != nil {
		return err
	}
	if role == nil {
		return fmt.Errorf("public role does not exist")
	}
	_, err = s.tc.Store.Create(ctx, content.PermissionUID, document.CreateParams{
		Data: document.Fields{"action": action, "role": role.ID},
	})
	return err
}

func (s *StepsContext) theCollectionAlreadyContains(uid string, doc *godog.DocString) error {
	var data document.Fields
	if err := json.Unmarshal([]byte(doc.Content), &data); err != nil {
		return fmt.Errorf("invalid document JSON: %w", err)
	}
	_, err := s.tc.Store.Create(context.Background(), uid, document.CreateParams{
		Data:   data,
		Status: document.StatusPublished,
	})
	return err
}

// Provisioning steps

func (s *StepsContext) theProvisionerRuns() error {
	return s.provision(seed.DefaultFeaturedCount)
}

func (s *StepsContext) theProvisionerRunsWithFeaturedPuppies(n int) error {
	return s.provision(n)
}

func (s *StepsContext) provision(featured int) error {
	ds, err := seed.DefaultDataset()
	if err != nil {
		return err
	}

	s.logs.Reset()
	logger := slog.New(slog.NewTextHandler(&s.logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s.result, s.provisionErr = seed.New(s.tc.Store, ds).
		WithLogger(logger).
		WithFeaturedCount(featured).
		Provision(context.Background())
	return s.provisionErr
}

func (s *StepsContext) permissionsShouldHaveBeenGranted(expected int) error {
	if s.result == nil {
		return fmt.Errorf("the provisioner has not run")
	}
	if len(s.result.Granted) != expected {
		return fmt.Errorf("expected %d granted permissions, got %d: %v", expected, len(s.result.Granted), s.result.Granted)
	}
	return nil
}

func (s *StepsContext) theRoleShouldHavePermissions(roleType string, expected int) error {
	ctx := context.Background()
	role, err := seed.FindRole(ctx, s.tc.Store, roleType)
	if err != nil {
		return err
	}
	if role == nil {
		return fmt.Errorf("role %s does not exist", roleType)
	}

	perms, err := s.tc.Store.FindMany(ctx, content.PermissionUID, document.Filter{"role": role.ID})
	if err != nil {
		return err
	}
	actions := map[string]bool{}
	for _, perm := range perms {
		action, _ := perm.Data["action"].(string)
		if actions[action] {
			return fmt.Errorf("duplicate permission %s on role %s", action, roleType)
		}
		actions[action] = true
	}
	if len(actions) != expected {
		return fmt.Errorf("expected %d permissions on role %s, got %d", expected, roleType, len(actions))
	}
	return nil
}

func (s *StepsContext) theCollectionShouldContainDocuments(uid string, expected int) error {
	var count int64
	if err := s.tc.DB.Raw(`SELECT COUNT(*) FROM documents WHERE collection = ?`, uid).Scan(&count).Error; err != nil {
		return err
	}
	if int(count) != expected {
		return fmt.Errorf("expected %d documents in %s, got %d", expected, uid, count)
	}
	return nil
}

func (s *StepsContext) theAboutPageShouldFeaturePuppies(expected int) error {
	ctx := context.Background()
	page, err := s.tc.Store.FindFirst(ctx, content.AboutPageUID, nil)
	if err != nil {
		return err
	}
	if page == nil {
		return fmt.Errorf("about page does not exist")
	}

	refs := page.Refs(seed.FeaturedPuppiesField)
	if len(refs) != expected {
		return fmt.Errorf("expected %d featured puppies, got %d", expected, len(refs))
	}
	for _, ref := range refs {
		var count int64
		if err := s.tc.DB.Raw(
			`SELECT COUNT(*) FROM documents WHERE collection = ? AND (document_id = ? OR id = ?)`,
			content.PuppyUID, ref.DocumentID, ref.ID,
		).Scan(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("featured puppy %s does not exist", ref)
		}
	}
	return nil
}

func (s *StepsContext) theLogShouldContain(text string) error {
	if !strings.Contains(s.logs.String(), text) {
		return fmt.Errorf("log does not contain %q:\n%s", text, s.logs.String())
	}
	return nil
}

func (s *StepsContext) theLogShouldNotContain(text string) error {
	if strings.Contains(s.logs.String(), text) {
		return fmt.Errorf("log unexpectedly contains %q:\n%s", text, s.logs.String())
	}
	return nil
}

// API steps

func (s *StepsContext) iRequest(path string) error {
	resp, err := s.tc.HTTPClient.Get(s.tc.ServerURL + path)
	if err != nil {
		return err
	}
	s.response = resp

	s.responseBody, err = io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return err
}

func (s *StepsContext) theResponseStatusShouldBe(expected int) error {
	if s.response == nil {
		return fmt.Errorf("no response received")
	}
	if s.response.StatusCode != expected {
		return fmt.Errorf("expected status %d, got %d: %s", expected, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseShouldListDocuments(expected int) error {
	var body struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(s.responseBody, &body); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if len(body.Data) != expected {
		return fmt.Errorf("expected %d documents, got %d", expected, len(body.Data))
	}
	return nil
}

func (s *StepsContext) theResponseBodyShouldContain(text string) error {
	if !strings.Contains(string(s.responseBody), text) {
		return fmt.Errorf("response does not contain %q: %s", text, string(s.responseBody))
	}
	return nil
}
