package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doanchienthangdev/omgkit/pkg/skills"
)

func TestSkillOutputs(t *testing.T) {
	discovered := map[string]*skills.Skill{
		"prisma":   {Name: "prisma", Description: "Prisma patterns"},
		"postgres": {Name: "postgres", Description: "Postgres tuning"},
		"react":    {Name: "react", Description: "React conventions"},
	}

	outputs := skillOutputs(discovered, nil)
	require.Len(t, outputs, 3)
	assert.Equal(t, "postgres", outputs[0].Name)
	assert.Equal(t, "prisma", outputs[1].Name)
	assert.Equal(t, "react", outputs[2].Name)

	outputs = skillOutputs(discovered, []string{"react", "prisma"})
	require.Len(t, outputs, 2)
	assert.Equal(t, "prisma", outputs[0].Name)
	assert.Equal(t, "react", outputs[1].Name)

	outputs = skillOutputs(discovered, []string{"missing"})
	assert.Empty(t, outputs)
}
