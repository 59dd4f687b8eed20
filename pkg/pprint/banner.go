// Package pprint: devctl wordmark.
package pprint

// PrintBanner prints the devctl wordmark with version and tagline.
func (p *Printer) PrintBanner(version, buildDate string) {
	p.Linef("")
	p.Linef("%s", p.render(StylePrimary, "  ┌┬┐┌─┐┬  ┬┌─┐┌┬┐┬  "))
	p.Linef("%s", p.render(StyleAccent, "   ││├┤ └┐┌┘│   │ │  "))
	p.Linef("%s", p.render(StyleMuted, "  ─┴┘└─┘ └┘ └─┘ ┴ ┴─┘"))
	p.Linef("")

	versionStr := p.render(StyleAccent, "  "+version)
	if buildDate != "" {
		versionStr += p.render(StyleMuted, "  built "+buildDate)
	}
	p.Linef("%s", p.render(StyleMuted, "  Benchmarks, builds and project tooling"))
	p.Linef("%s", versionStr)
	p.Linef("")
}
