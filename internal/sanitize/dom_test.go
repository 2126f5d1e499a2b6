package sanitize

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// checkDOM parses out the way a browser would and reports the first element,
// attribute or URL that breaks the profile's guarantees.
func checkDOM(p Profile, out string) error {
	doc, err := html.Parse(strings.NewReader(out))
	if err != nil {
		return fmt.Errorf("parse output: %w", err)
	}
	allowed := strictTags
	if p == ProfileLegacy {
		allowed = legacyTags
	}

	var walk func(n *html.Node) error
	walk = func(n *html.Node) error {
		switch n.Type {
		case html.CommentNode:
			return fmt.Errorf("comment %q survived", n.Data)
		case html.ElementNode:
			switch n.Data {
			case "html", "head", "body":
			default:
				if _, ok := allowed[n.Data]; !ok {
					return fmt.Errorf("element <%s> not allowed", n.Data)
				}
				if err := checkAttrs(p, n); err != nil {
					return err
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(doc)
}

func checkAttrs(p Profile, n *html.Node) error {
	if p == ProfileLegacy {
		if len(n.Attr) > 0 {
			return fmt.Errorf("<%s> kept attribute %q", n.Data, n.Attr[0].Key)
		}
		return nil
	}
	for _, a := range n.Attr {
		if !attributeAllowed(n.Data, a.Key) {
			return fmt.Errorf("<%s> kept attribute %q", n.Data, a.Key)
		}
		if (a.Key == "href" || a.Key == "src") && isDangerousURL(a.Val) {
			return fmt.Errorf("<%s %s=%q> is a dangerous URL", n.Data, a.Key, a.Val)
		}
	}
	return nil
}

var attackCorpus = []string{
	`<script>alert(1)</script>`,
	`<SCRIPT SRC=//evil.example/x.js></SCRIPT>`,
	`<scr<script>ipt>alert(1)</script>`,
	`<<script>script>alert(1)<</script>/script>`,
	`<img src=x onerror=alert(1)>`,
	`<img src="x" onerror="alert(1)"/>`,
	`<img/src="x"/onerror=alert(1)>`,
	`<svg/onload=alert(1)>`,
	`<body onload=alert(1)>`,
	`<iframe src="javascript:alert(1)"></iframe>`,
	`<iframe srcdoc="&lt;script&gt;alert(1)&lt;/script&gt;"></iframe>`,
	`<object data="javascript:alert(1)"></object>`,
	`<embed src="javascript:alert(1)">`,
	`<form action="javascript:alert(1)"><input type=submit></form>`,
	`<a href="javascript:alert(1)">x</a>`,
	`<a href="  JaVaScRiPt:alert(1)">x</a>`,
	"<a href=\"java\tscript:alert(1)\">x</a>",
	"<a href=\"java\x00script:alert(1)\">x</a>",
	`<a href="vbscript:msgbox(1)">x</a>`,
	`<a href="data:text/html;base64,PHNjcmlwdD5hbGVydCgxKTwvc2NyaXB0Pg==">x</a>`,
	`<a href='javascript:alert(1)' target=_blank>x</a>`,
	`<a href=javascript:alert(1)>x</a>`,
	`<img src="file:///etc/passwd">`,
	`<div style="background:url(javascript:alert(1))">x</div>`,
	`<div style="width:expression(alert(1))">x</div>`,
	`<div style="behavior:url(x.htc)">x</div>`,
	`<style>@import url(evil.css);</style>`,
	`<link rel=stylesheet href="javascript:alert(1)">`,
	`<meta http-equiv="refresh" content="0;url=javascript:alert(1)">`,
	`<p onmouseover="alert(1)">hover</p>`,
	`<a title="x" onclick="alert(1)">x</a>`,
	`<!--<img src=x onerror=alert(1)>-->`,
	`<!-- unterminated <script>alert(1)</script>`,
	`<math><mtext><table><mglyph><style><img src=x onerror=alert(1)>`,
	`<noscript><p title="</noscript><img src=x onerror=alert(1)>">`,
	`<table><tr><td background="javascript:alert(1)">x</td></tr></table>`,
	`<<x>iframe srcdoc="x">`,
	`<p/onclick=alert(1)>x</p>`,
	`<xss onafterscriptexecute=alert(1)><script>1</script>`,
	`<b><i><u>nested</u></i></b><marquee onstart=alert(1)>m</marquee>`,
}

// residueCorpus holds attacks whose payload survives Strict only as escaped
// text. The text is inert, but the raw-input classifier still matches it.
var residueCorpus = []string{
	`<a title="a>b" onclick="alert(1)">x</a>`,
	`<p>unterminated <img src=x onerror=alert(1)`,
	`<style>@import 'javascript:alert(1)';</style>`,
	`javascript:alert(1)`,
}

var benignCorpus = []string{
	`<p>hi</p>`,
	`<p>Week 3 report</p><ul><li>Set up CI</li><li>Wrote tests</li></ul>`,
	`<a href="https://example.com" target="_blank">site</a>`,
	`<a href="/tasks/4" title="Task">task</a>`,
	`<h2>Heading</h2><blockquote>Quote</blockquote><pre><code>go test</code></pre>`,
	`<table><thead><tr><th colspan="2">H</th></tr></thead><tbody><tr><td>a</td><td>b</td></tr></tbody></table>`,
	`<img src="/img/a.png" alt="diagram" width="10" height="20">`,
	`<span style="color:red">red</span><br/><hr>`,
	`<marquee>hi</marquee>`,
	`<div class="note">Note</div>`,
}
