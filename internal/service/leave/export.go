package leave

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/hc-portal-go/internal/domain/leave"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Cuti"

var exportHeaders = []string{
	"NIK",
	"NAMA",
	"TANGGAL LAHIR",
	"SITE",
	"DEPARTEMEN",
	"JABATAN",
	"HAK TIKET",
	"POH",
	"JENIS CUTI",
	"JENIS PENGAJUAN",
	"PERIODE AWAL",
	"PERIODE AKHIR",
	"JUMLAH HARI",
	"RUTE",
	"TGL TIKET",
	"NAMA PESAWAT",
	"JAM KEBERANGKATAN",
	"KODE BOOKING",
	"TGL ISSUED TIKET",
	"LAMA ONSITE",
	"CATATAN",
	"STATUS",
}

// hakTiket maps a job title onto the ticket rotation it is entitled to.
func hakTiket(jabatan *string) string {
	if jabatan == nil {
		return "-"
	}
	j := strings.ToUpper(*jabatan)
	switch {
	case strings.Contains(j, "GL") || strings.Contains(j, "GENERAL LEADER"):
		return "12 MINGGU"
	case strings.Contains(j, "SPV") || strings.Contains(j, "SUPERVISOR"):
		return "10 MINGGU"
	case strings.Contains(j, "PJO") || strings.Contains(j, "PROJECT OFFICER"):
		return "8 MINGGU"
	}
	return "-"
}

func orDash(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return "-"
	}
	return *s
}

func route(from, to *string) string {
	switch {
	case from != nil && to != nil:
		return *from + " - " + *to
	case from != nil:
		return *from
	case to != nil:
		return *to
	}
	return "-"
}

func exportRow(r leave.LeaveRequestResponse) []interface{} {
	issuedAt := "-"
	if r.BookingCodeIssuedAt != nil {
		issuedAt = r.BookingCodeIssuedAt.Format(dateLayout)
	}
	lamaOnsite := "-"
	if r.LamaOnsite != nil {
		lamaOnsite = strconv.Itoa(*r.LamaOnsite)
	}
	return []interface{}{
		r.NIK,
		orDash(r.Name),
		orDash(r.TanggalLahir),
		r.Site,
		r.Departemen,
		orDash(r.Jabatan),
		hakTiket(r.Jabatan),
		orDash(r.POH),
		r.JenisCuti,
		string(r.JenisPengajuan),
		r.PeriodeAwal,
		r.PeriodeAkhir,
		r.JumlahHari,
		route(r.BerangkatDari, r.Tujuan),
		orDash(r.TanggalKeberangkatan),
		orDash(r.NamaPesawat),
		orDash(r.JamKeberangkatan),
		orDash(r.BookingCode),
		issuedAt,
		lamaOnsite,
		orDash(r.Catatan),
		string(r.Status),
	}
}

const dateLayout = "2006-01-02"

// Export writes the ListAll view for scope as a single-sheet workbook.
func (s *workflowService) Export(ctx context.Context, scope leave.ScopeFilter, w io.Writer) error {
	requests, err := s.ListAll(ctx, scope)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(exportHeaders))
	for i, h := range exportHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range requests {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := exportRow(r)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(exportSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
