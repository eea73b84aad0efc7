package reactor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fyrsmithlabs/sqscan/internal/props"
)

func TestProjectsDepthFirst(t *testing.T) {
	root := NewDefinition(props.Properties{props.ProjectKey: "root"})
	child1 := NewDefinition(props.Properties{props.ProjectKey: "root:child1"})
	child2 := NewDefinition(props.Properties{props.ProjectKey: "root:child2"})
	grandchild := NewDefinition(props.Properties{props.ProjectKey: "root:child1:sub"})

	child1.AddSubProject(grandchild)
	root.AddSubProject(child1)
	root.AddSubProject(child2)

	var keys []string
	for _, project := range NewReactor(root).Projects() {
		keys = append(keys, project.Key())
	}
	assert.Equal(t, []string{"root", "root:child1", "root:child1:sub", "root:child2"}, keys)
}

func TestNewDefinitionNilBag(t *testing.T) {
	def := NewDefinition(nil)
	assert.NotNil(t, def.Properties())
	assert.Empty(t, def.Key())
}
