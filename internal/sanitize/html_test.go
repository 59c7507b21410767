package sanitize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTextStripsMarkup(t *testing.T) {
	require.Equal(t, "Team Standup", Text("<b>Team</b> Standup"))
	require.Equal(t, "alert(1)", Text("<script>alert(1)</script>"))
	require.Equal(t, "Main Hall", Text("Main Hall"))
}

func TestHTMLKeepsSafeFormatting(t *testing.T) {
	require.Equal(t, "<p>Agenda</p>", HTML("<p>Agenda</p>"))
	require.Equal(t, "<b>bold</b>", HTML("<b onclick=\"steal()\">bold</b>"))
	require.NotContains(t, HTML("<script>steal()</script><em>ok</em>"), "<script>")
}
