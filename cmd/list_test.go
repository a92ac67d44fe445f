package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"schemacov.dev/pkg/schemacov/internal/domain"
	domainmocks "schemacov.dev/pkg/schemacov/internal/domain/mocks"
	m "schemacov.dev/pkg/schemacov/internal/model"
)

func TestListCmd(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want m.Path
	}{
		{"default output", []string{"list"}, m.Path(".schemacov")},
		{"output flag", []string{"-o", "elsewhere", "list"}, m.Path("elsewhere")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockWorkflow := domainmocks.NewMockWorkflow(t)

			cmd := newRootCmd()
			cmd.AddCommand(newListCmd())
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})

			originalWorkflow := workflow
			workflow = mockWorkflow
			defer func() { workflow = originalWorkflow }()

			mockWorkflow.EXPECT().List(mock.Anything, domain.ListArgs{Output: tt.want}).Return(nil)

			cmd.SetArgs(tt.args)
			require.NoError(t, cmd.Execute())
		})
	}
}
