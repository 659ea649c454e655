// ABOUTME: Report and backup MCP tool handlers
// ABOUTME: Implements crm_report and export_backup tools
package handlers

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/amil/crm"
	"github.com/harperreed/amil/i18n"
	"github.com/harperreed/amil/viz"
)

type ReportHandlers struct {
	svc *crm.Service
}

func NewReportHandlers(svc *crm.Service) *ReportHandlers {
	return &ReportHandlers{svc: svc}
}

type CRMReportInput struct {
	From string `json:"from,omitempty" jsonschema:"First day of the period, YYYY-MM-DD (default one month ago)"`
	To   string `json:"to,omitempty" jsonschema:"Last day of the period, YYYY-MM-DD (default today)"`
}

type CRMReportOutput struct {
	Report *viz.Report `json:"report"`
	Text   string      `json:"text"`
}

func (h *ReportHandlers) CRMReport(_ context.Context, request *mcp.CallToolRequest, input CRMReportInput) (*mcp.CallToolResult, CRMReportOutput, error) {
	now := h.svc.Now()
	from, err := parseDate("from", input.From, now.AddDate(0, -1, 0))
	if err != nil {
		return nil, CRMReportOutput{}, err
	}
	to, err := parseDate("to", input.To, now)
	if err != nil {
		return nil, CRMReportOutput{}, err
	}
	if to.Before(from) {
		return nil, CRMReportOutput{}, fmt.Errorf("to (%s) is before from (%s)", input.To, input.From)
	}

	snap := h.svc.Snapshot()
	report := viz.GenerateReport(snap, from, to)
	return nil, CRMReportOutput{
		Report: report,
		Text:   viz.RenderReport(report, i18n.LocaleFor(snap.Settings)),
	}, nil
}

type ExportBackupInput struct {
	Dir string `json:"dir,omitempty" jsonschema:"Directory to write the backup file into; when empty the document is returned inline"`
}

type ExportBackupOutput struct {
	FileName     string `json:"file_name"`
	Path         string `json:"path,omitempty"`
	Customers    int    `json:"customers"`
	Interactions int    `json:"interactions"`
	Deals        int    `json:"deals"`
	Tasks        int    `json:"tasks"`
	Document     string `json:"document,omitempty"`
}

func (h *ReportHandlers) ExportBackup(_ context.Context, request *mcp.CallToolRequest, input ExportBackupInput) (*mcp.CallToolResult, ExportBackupOutput, error) {
	backup := h.svc.Export()

	var buf bytes.Buffer
	if err := crm.WriteBackup(&buf, backup); err != nil {
		return nil, ExportBackupOutput{}, fmt.Errorf("failed to encode backup: %w", err)
	}

	out := ExportBackupOutput{
		FileName:     crm.BackupFileName(backup.ExportDate),
		Customers:    len(backup.Customers),
		Interactions: len(backup.Interactions),
		Deals:        len(backup.Deals),
		Tasks:        len(backup.Tasks),
	}
	if input.Dir == "" {
		out.Document = buf.String()
		return nil, out, nil
	}

	out.Path = filepath.Join(input.Dir, out.FileName)
	if err := os.WriteFile(out.Path, buf.Bytes(), 0600); err != nil {
		return nil, ExportBackupOutput{}, fmt.Errorf("failed to write backup: %w", err)
	}
	return nil, out, nil
}
