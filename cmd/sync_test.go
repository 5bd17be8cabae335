package cmd

import (
	"testing"

	"github.com/artsfest/festsync/pkg/config"
	"github.com/artsfest/festsync/pkg/errcode"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncCommands(t *testing.T) {
	syncCmd := getSyncCmd()
	require.Len(t, syncCmd.Commands(), 2)

	cmds := []*cobra.Command{getImportCmd(), getTemplateCmd()}
	cmds = append(cmds, syncCmd.Commands()...)
	for _, v := range cmds {
		flag := v.Flags().Lookup("type")
		require.NotNil(t, flag, v.Name())
		assert.Equal(t, "t", flag.Shorthand, v.Name())
		assert.Equal(t,
			[]string{"true"},
			flag.Annotations[cobra.BashCompOneRequiredFlag],
			v.Name(),
		)
	}
}

func TestAnalyzeCommands(t *testing.T) {
	cmd := getAnalyzeCmd()
	assert.NotNil(t, cmd.Flags().Lookup("json"))

	var names []string
	for _, v := range cmd.Commands() {
		names = append(names, v.Name())
	}
	assert.ElementsMatch(t, []string{"map", "template"}, names)

	m := getMapCmd()
	for _, v := range []string{"mapping", "sheet", "import"} {
		assert.NotNil(t, m.Flags().Lookup(v), v)
	}
}

func TestParseKind(t *testing.T) {
	k, err := parseKind(" Teams ")
	require.NoError(t, err)
	assert.Equal(t, "teams", string(k))

	_, err = parseKind("users")
	assert.Error(t, err)
}

func TestOpenSheetNotConfigured(t *testing.T) {
	tests := []struct {
		msg     string
		cfg     config.SheetsConfig
		missing string
	}{
		{"google", config.SheetsConfig{Backend: "google"},
			"GOOGLE_SPREADSHEET_ID, GOOGLE_CLIENT_EMAIL, GOOGLE_PRIVATE_KEY"},
		{"xlsx", config.SheetsConfig{Backend: "xlsx"}, "sheets.workbook_path"},
	}
	for _, v := range tests {
		_, err := openSheet(t.Context(), v.cfg)
		var gnErr *gn.Error
		require.ErrorAs(t, err, &gnErr, v.msg)
		assert.Equal(t, errcode.SheetsNotConfiguredError, gnErr.Code, v.msg)
		assert.Equal(t, v.missing, gnErr.Vars[0], v.msg)
	}
}
