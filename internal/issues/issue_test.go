package issues

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/erraggy/apimfix/internal/severity"
)

func TestIssueString(t *testing.T) {
	tests := []struct {
		name  string
		issue Issue
		want  string
	}{
		{
			name: "warning with path",
			issue: Issue{
				Path:     "components.schemas.Foo",
				Message:  "removed propertyNames",
				Severity: severity.SeverityWarning,
			},
			want: "⚠ components.schemas.Foo: removed propertyNames",
		},
		{
			name: "info at the root",
			issue: Issue{
				Message:  "openapi version set to 3.0.1",
				Severity: severity.SeverityInfo,
			},
			want: "ℹ (root): openapi version set to 3.0.1",
		},
		{
			name: "with context",
			issue: Issue{
				Path:     "openapi",
				Message:  "version rewritten",
				Severity: severity.SeverityInfo,
				Context:  "was 3.1.0",
			},
			want: "ℹ openapi: version rewritten\n    Context: was 3.1.0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.issue.String())
		})
	}
}

func TestCount(t *testing.T) {
	list := []Issue{
		{Severity: severity.SeverityInfo},
		{Severity: severity.SeverityWarning},
		{Severity: severity.SeverityWarning},
		{Severity: severity.SeverityError},
	}
	info, warning, errs := Count(list)
	assert.Equal(t, 1, info)
	assert.Equal(t, 2, warning)
	assert.Equal(t, 1, errs)

	info, warning, errs = Count(nil)
	assert.Zero(t, info+warning+errs)
}
