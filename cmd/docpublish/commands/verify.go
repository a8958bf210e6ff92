package commands

import (
	"fmt"

	pErrors "git.home.luguber.info/inful/docpublish/internal/errors"
	"git.home.luguber.info/inful/docpublish/internal/linkverify"
)

// VerifyCmd implements the 'verify' command: offline link check of a built
// documentation tree.
type VerifyCmd struct {
	Dir string `arg:"" help:"Documentation tree to verify" default:"target/doc"`
}

func (v *VerifyCmd) Run(_ *Global, _ *CLI) error {
	report, err := linkverify.VerifyTree(v.Dir)
	if err != nil {
		return err
	}

	fmt.Printf("Scanned %d files, checked %d links\n", report.FilesScanned, report.LinksChecked)
	if report.OK() {
		fmt.Println("All internal links resolve")
		return nil
	}

	for _, broken := range report.Broken {
		fmt.Printf("broken: %s -> %s\n", broken.File, broken.Target)
	}
	return pErrors.New(pErrors.CategoryValidation, pErrors.SeverityFatal,
		fmt.Sprintf("%d broken internal links", len(report.Broken)))
}
