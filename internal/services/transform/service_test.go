package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func TestHTMLToMarkdown(t *testing.T) {
	svc := NewService(arbor.NewLogger())

	html := `<html><head><script>var x = 1;</script><style>p{}</style></head>
	<body><nav><a href="/">Home</a></nav>
	<main><h1>Q4 Earnings Call</h1><p>Revenue grew <b>12%</b> year on year.</p></main>
	<footer>Copyright</footer></body></html>`

	out, err := svc.HTMLToMarkdown(html, "https://example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "# Q4 Earnings Call")
	assert.Contains(t, out, "Revenue grew **12%** year on year.")
	assert.NotContains(t, out, "var x")
	assert.NotContains(t, out, "Copyright")
	assert.NotContains(t, out, "Home")

	empty, err := svc.HTMLToMarkdown("   ", "")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestTableToMarkdown(t *testing.T) {
	svc := NewService(arbor.NewLogger())

	html := `<section id="ratios"><table class="data-table">
		<thead><tr><th></th><th>Mar 2023</th><th>Mar 2024</th></tr></thead>
		<tbody>
			<tr><td class="text">ROCE %</td><td>58%</td><td>64%</td></tr>
			<tr><td class="text">Debtor Days</td><td>67</td></tr>
		</tbody>
	</table></section>`

	out, err := svc.TableToMarkdown(html, "table.data-table")
	require.NoError(t, err)
	assert.Equal(t, "|  | Mar 2023 | Mar 2024 |\n| --- | --- | --- |\n| ROCE % | 58% | 64% |\n| Debtor Days | 67 |  |\n", out)

	_, err = svc.TableToMarkdown("<p>nothing</p>", "table.data-table")
	assert.Error(t, err)
}

func TestStripHTMLTags(t *testing.T) {
	assert.Equal(t, "a & b < c", StripHTMLTags("<p>a &amp; b</p>\n<div>&lt; c</div>"))
}
