package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promosite/service-api/internal/contact/entity"
)

func TestConfigEnabled(t *testing.T) {
	t.Parallel()

	assert.False(t, Config{}.Enabled())
	assert.False(t, Config{Host: "smtp.example.com"}.Enabled())
	assert.True(t, Config{Host: "smtp.example.com", AdminEmail: "admin@x.com", From: "noreply@x.com"}.Enabled())
}

func TestRenderLead_EscapesHTML(t *testing.T) {
	t.Parallel()

	c := &entity.Contact{
		Name:    "Ana",
		Email:   "ana@x.com",
		Message: "<script>alert(1)</script>",
		Type:    entity.TypeContact,
	}
	body, err := renderLead(c)
	require.NoError(t, err)
	assert.Contains(t, body, "Ana")
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")
}
