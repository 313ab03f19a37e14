package sqlguard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCondition(t *testing.T) {
	tests := []struct {
		name        string
		condition   string
		expectError bool
	}{
		{name: "comparison", condition: "id > 5"},
		{name: "semicolon inside literal", condition: "name = 'a;b'"},
		{name: "compound", condition: "status IN ('open', 'new') AND created_at > NOW()"},
		{name: "blank", condition: "   "},
		{name: "stacked statement", condition: "1=1); DROP TABLE accounts; --", expectError: true},
		{name: "comment swallowing parenthesis", condition: "1=1 -- tail", expectError: true},
		{name: "union", condition: "1=1) UNION (SELECT 1", expectError: true},
		{name: "order clause", condition: "1=1) ORDER BY (1", expectError: true},
		{name: "sub-select", condition: "id IN (SELECT id FROM other)", expectError: true},
		{name: "garbage", condition: "id >", expectError: true},
	}

	g := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.ValidateCondition(tt.condition)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAllowSubqueries(t *testing.T) {
	g := New()
	g.AllowSubqueries = true
	assert.NoError(t, g.ValidateCondition("id IN (SELECT id FROM other)"))
}
