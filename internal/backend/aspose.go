package backend

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const asposeScript = `import os
import sys

import aspose.slides as slides

src, dst, lic = sys.argv[1], sys.argv[2], sys.argv[3]
if lic:
    slides.License().set_license(lic)
opts = slides.export.MarkdownSaveOptions()
opts.export_type = slides.export.MarkdownExportType.VISUAL
opts.images_save_folder_name = "images"
opts.base_path = os.path.dirname(dst)
with slides.Presentation(src) as pres:
    pres.save(dst, slides.export.SaveFormat.MD, opts)
`

// Releases before MarkdownSaveOptions only know the bare save format.
const asposeLegacyScript = `import sys

import aspose.slides as slides

src, dst, lic = sys.argv[1], sys.argv[2], sys.argv[3]
if lic:
    slides.License().set_license(lic)
pres = slides.Presentation(src)
try:
    pres.save(dst, slides.export.SaveFormat.MD)
finally:
    pres.dispose()
`

var asposeInvocations = []Invocation{
	{Bin: "{python}", Args: []string{"-c", asposeScript, "{input}", "{output}", "{license}"}},
	{Bin: "{python}", Args: []string{"-c", asposeLegacyScript, "{input}", "{output}", "{license}"}},
}

// Aspose exports through the Aspose.Slides SDK.
type Aspose struct {
	exec Executor
	base Vars
}

// NewAspose returns the Aspose.Slides backend.
func NewAspose(ex Executor, base Vars) *Aspose {
	return &Aspose{exec: ex, base: base}
}

func (a *Aspose) Name() string { return NameAspose }

func (a *Aspose) Convert(ctx context.Context, job Job) error {
	if err := RunFirst(ctx, a.exec, NameAspose, asposeInvocations, mergeVars(a.base, job)); err != nil {
		return err
	}
	return collectMarkdown(job)
}

// collectMarkdown makes sure job.Markdown exists after an SDK export. A
// single stray .md file is renamed; several are concatenated in file name
// order and then removed.
func collectMarkdown(job Job) error {
	if _, err := os.Stat(job.Markdown); err == nil {
		return nil
	}

	entries, err := os.ReadDir(job.OutputDir)
	if err != nil {
		return fmt.Errorf("read output dir: %w", err)
	}

	var fragments []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.EqualFold(filepath.Ext(e.Name()), ".md") {
			fragments = append(fragments, filepath.Join(job.OutputDir, e.Name()))
		}
	}

	switch len(fragments) {
	case 0:
		return &Error{Backend: NameAspose, Kind: KindUnexpectedResult, Detail: "no markdown output produced"}
	case 1:
		if err := os.Rename(fragments[0], job.Markdown); err != nil {
			return fmt.Errorf("rename markdown: %w", err)
		}
		return nil
	}

	parts := make([]string, 0, len(fragments))
	for _, f := range fragments {
		data, err := os.ReadFile(f)
		if err != nil {
			return fmt.Errorf("read markdown fragment: %w", err)
		}
		parts = append(parts, strings.TrimRight(string(data), "\n"))
	}
	if err := writeMarkdown(job.Markdown, strings.Join(parts, "\n\n")+"\n"); err != nil {
		return err
	}
	for _, f := range fragments {
		if err := os.Remove(f); err != nil {
			return fmt.Errorf("remove markdown fragment: %w", err)
		}
	}
	return nil
}
