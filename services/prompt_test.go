package services_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"regrag/index"
	"regrag/models"
	"regrag/services"
)

func TestBuildPromptInterpolatesContextAndQuestion(t *testing.T) {
	results := []index.Result{
		{Entry: index.Entry{Content: "first retrieved passage", Meta: models.Metadata{DocType: models.DocTypeAnnualReport}}},
		{Entry: index.Entry{Content: "second retrieved passage", Meta: models.Metadata{DocType: models.DocTypeFAQ}}},
	}

	prompt := services.BuildPrompt(results, "what changed recently?")

	assert.Contains(t, prompt, "first retrieved passage\n\nsecond retrieved passage")
	assert.Contains(t, prompt, "Question: what changed recently?")
	assert.Contains(t, prompt, "If the context doesn't contain enough information, clearly state this")
	assert.Contains(t, prompt, "Annual Report, Master Circular, FAQ")
	assert.True(t, strings.HasSuffix(prompt, "Answer:"))
}

func TestBuildPromptWithNoResults(t *testing.T) {
	prompt := services.BuildPrompt(nil, "anything to report?")

	assert.Contains(t, prompt, "Question: anything to report?")
	assert.True(t, strings.HasSuffix(prompt, "Answer:"))
}
