package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"time"
)

// WebServer serves the interactive calculator UI and its JSON API.
type WebServer struct {
	cfg       TaxYearConfig
	addr      string
	exportDir string
}

// NewWebServer creates a web server for the given tax year constants.
func NewWebServer(cfg TaxYearConfig, addr string) *WebServer {
	return &WebServer{
		cfg:       cfg,
		addr:      addr,
		exportDir: "exports",
	}
}

// APIComputeRequest is the JSON body accepted by the compute, export and
// download routes: the portfolio exactly as the UI holds it.
type APIComputeRequest struct {
	Properties  []PropertyRecord `json:"properties"`
	OtherIncome float64          `json:"other_income"`
}

func (req *APIComputeRequest) toPortfolio() Portfolio {
	return Portfolio{
		Properties:  req.Properties,
		OtherIncome: req.OtherIncome,
	}
}

// APIComputeResponse carries a full computation back to the UI.
type APIComputeResponse struct {
	Success bool                  `json:"success"`
	Error   string                `json:"error,omitempty"`
	Result  *TaxComputationResult `json:"result,omitempty"`
	SA105   []SA105Box            `json:"sa105,omitempty"`
}

// APIExportResponse reports the outcome of a file export.
type APIExportResponse struct {
	Success   bool   `json:"success"`
	FilePath  string `json:"file_path,omitempty"`
	Reference string `json:"reference,omitempty"`
	Message   string `json:"message"`
}

// Start starts the web server and blocks serving requests.
func (ws *WebServer) Start() error {
	mux := http.NewServeMux()

	mux.HandleFunc("/", ws.handleIndex)
	mux.HandleFunc("/api/config", ws.handleGetConfig)
	mux.HandleFunc("/api/compute", ws.handleCompute)
	mux.HandleFunc("/api/export-csv", ws.handleExportCSV)
	mux.HandleFunc("/api/export-pdf", ws.handleExportPDF)
	mux.HandleFunc("/api/download-pdf", ws.handleDownloadPDF)

	// Listen on the address (use :0 for auto-assign)
	listener, err := net.Listen("tcp", ws.addr)
	if err != nil {
		return err
	}

	// Get the actual address (with assigned port)
	actualAddr := listener.Addr().String()
	url := fmt.Sprintf("http://%s", actualAddr)

	// If listening on all interfaces, use localhost for the URL
	if strings.HasPrefix(actualAddr, ":") || strings.HasPrefix(actualAddr, "0.0.0.0:") {
		port := actualAddr[strings.LastIndex(actualAddr, ":")+1:]
		url = fmt.Sprintf("http://localhost:%s", port)
	}

	slog.Info("web server listening", "addr", actualAddr)
	slog.Info("opening browser", "url", url)

	go openBrowser(url)

	return http.Serve(listener, mux)
}

// StartForEmbedded starts the server and returns the URL and a cleanup
// function. Unlike Start(), this does NOT open the browser and does NOT
// block. The caller stops the server via the cleanup function.
func (ws *WebServer) StartForEmbedded() (url string, cleanup func(), err error) {
	mux := http.NewServeMux()

	mux.HandleFunc("/", ws.handleIndex)
	mux.HandleFunc("/api/config", ws.handleGetConfig)
	mux.HandleFunc("/api/compute", ws.handleCompute)
	mux.HandleFunc("/api/export-csv", ws.handleExportCSV)
	mux.HandleFunc("/api/export-pdf", ws.handleExportPDF)
	mux.HandleFunc("/api/download-pdf", ws.handleDownloadPDF)

	listener, err := net.Listen("tcp", ws.addr)
	if err != nil {
		return "", nil, err
	}

	actualAddr := listener.Addr().String()
	url = fmt.Sprintf("http://%s", actualAddr)

	if strings.HasPrefix(actualAddr, ":") || strings.HasPrefix(actualAddr, "0.0.0.0:") {
		port := actualAddr[strings.LastIndex(actualAddr, ":")+1:]
		url = fmt.Sprintf("http://localhost:%s", port)
	}

	slog.Info("embedded web server listening", "addr", actualAddr)

	server := &http.Server{Handler: mux}

	go func() {
		if err := server.Serve(listener); err != http.ErrServerClosed {
			slog.Error("web server stopped", "err", err)
		}
	}()

	cleanup = func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}

	return url, cleanup, nil
}

// handleIndex serves the main web UI
func (ws *WebServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "%s", webUIHTML)
}

// handleGetConfig returns the tax year constants with defaults filled in,
// so the UI never has to know the fallback values.
func (ws *WebServer) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg := ws.cfg
	cfg.Year = ws.cfg.GetYear()
	cfg.PersonalAllowance = ws.cfg.GetPersonalAllowance()
	cfg.TaperThreshold = ws.cfg.GetTaperThreshold()
	cfg.TaperRate = ws.cfg.GetTaperRate()
	cfg.InterestCreditRate = ws.cfg.GetInterestCreditRate()
	cfg.PaymentsOnAccountThreshold = ws.cfg.GetPaymentsOnAccountThreshold()
	cfg.Bands = ws.cfg.GetBands()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cfg)
}

// handleCompute runs the tax computation and returns every intermediate
// figure plus the SA105 box guide.
func (ws *WebServer) handleCompute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req APIComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request body: "+err.Error())
		return
	}

	portfolio := req.toPortfolio()
	if err := portfolio.Validate(); err != nil {
		sendJSONError(w, err.Error())
		return
	}

	start := time.Now()
	result := ComputeTax(portfolio, ws.cfg)
	slog.Debug("computed tax",
		"properties", len(portfolio.Properties),
		"final_tax", result.FinalTax,
		"duration", time.Since(start))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(APIComputeResponse{
		Success: true,
		Result:  &result,
		SA105:   BuildSA105Guide(result),
	})
}

// handleExportCSV computes and writes a CSV summary under the export
// directory, returning the file path for the UI notification.
func (ws *WebServer) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		json.NewEncoder(w).Encode(APIExportResponse{
			Success: false,
			Message: "Method not allowed",
		})
		return
	}

	var req APIComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(APIExportResponse{
			Success: false,
			Message: "Invalid request: " + err.Error(),
		})
		return
	}

	portfolio := req.toPortfolio()
	if err := portfolio.Validate(); err != nil {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(APIExportResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	result := ComputeTax(portfolio, ws.cfg)
	reference := NewExportReference()

	path, err := ExportComputationCSV(ws.exportDir, portfolio, result, ws.cfg, reference)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(APIExportResponse{
			Success: false,
			Message: "Failed to write CSV: " + err.Error(),
		})
		return
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	slog.Info("CSV exported", "path", absPath, "reference", reference)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(APIExportResponse{
		Success:   true,
		FilePath:  absPath,
		Reference: reference,
		Message:   fmt.Sprintf("CSV summary saved to %s", absPath),
	})
}

// handleExportPDF computes and writes the filing summary PDF under the
// export directory.
func (ws *WebServer) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		json.NewEncoder(w).Encode(APIExportResponse{
			Success: false,
			Message: "Method not allowed",
		})
		return
	}

	var req APIComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(APIExportResponse{
			Success: false,
			Message: "Invalid request: " + err.Error(),
		})
		return
	}

	portfolio := req.toPortfolio()
	if err := portfolio.Validate(); err != nil {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(APIExportResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	result := ComputeTax(portfolio, ws.cfg)
	reference := NewExportReference()

	path, err := ExportPDFReport(ws.exportDir, portfolio, result, ws.cfg, reference)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(APIExportResponse{
			Success: false,
			Message: "Failed to generate PDF: " + err.Error(),
		})
		return
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	slog.Info("PDF exported", "path", absPath, "reference", reference)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(APIExportResponse{
		Success:   true,
		FilePath:  absPath,
		Reference: reference,
		Message:   fmt.Sprintf("PDF summary saved to %s", absPath),
	})
}

// handleDownloadPDF returns the PDF directly for a browser download.
func (ws *WebServer) handleDownloadPDF(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req APIComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}

	portfolio := req.toPortfolio()
	if err := portfolio.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result := ComputeTax(portfolio, ws.cfg)
	reference := NewExportReference()

	pdfBytes, err := GeneratePDFReport(portfolio, result, ws.cfg, reference)
	if err != nil {
		http.Error(w, "Failed to generate PDF: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="SA105_Rental_Summary.pdf"`)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(pdfBytes)))
	w.Write(pdfBytes)
}

// sendJSONError sends a JSON error response
func sendJSONError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(APIComputeResponse{
		Success: false,
		Error:   message,
	})
}

// webUIHTML is the embedded web interface HTML
const webUIHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>UK Rental Property Tax Calculator</title>
    <link rel="icon" type="image/svg+xml" href="data:image/svg+xml,%3Csvg xmlns='http://www.w3.org/2000/svg' viewBox='0 0 64 64'%3E%3Cpolygon points='32,4 62,30 2,30' fill='%231d4ed8'/%3E%3Crect x='10' y='30' width='44' height='30' rx='2' fill='%232563eb'/%3E%3Crect x='27' y='40' width='10' height='20' fill='white'/%3E%3Ctext x='44' y='56' font-family='Georgia' font-size='20' font-weight='bold' fill='white'%3E%C2%A3%3C/text%3E%3C/svg%3E">
    <style>
        :root {
            --primary: #2563eb;
            --primary-dark: #1d4ed8;
            --success: #16a34a;
            --warning: #ea580c;
            --danger: #dc2626;
            --bg: #f1f5f9;
            --card-bg: #ffffff;
            --text: #1e293b;
            --text-muted: #64748b;
            --border: #e2e8f0;
        }
        * { box-sizing: border-box; margin: 0; padding: 0; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            background: var(--bg);
            color: var(--text);
            line-height: 1.6;
        }
        .header {
            background: linear-gradient(135deg, var(--primary) 0%, var(--primary-dark) 100%);
            color: white;
            padding: 1.5rem 2rem;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
        }
        .header h1 { font-size: 1.5rem; font-weight: 600; }
        .header p { opacity: 0.9; font-size: 0.875rem; }
        .container {
            display: flex;
            height: calc(100vh - 88px);
            overflow: hidden;
        }
        .config-panel {
            width: 420px;
            min-width: 420px;
            background: var(--card-bg);
            border-right: 1px solid var(--border);
            overflow-y: auto;
            padding: 0.75rem;
        }
        .results-panel {
            flex: 1;
            overflow-y: auto;
            padding: 1.25rem;
        }
        @media (max-width: 900px) {
            .container { flex-direction: column; height: auto; overflow: visible; }
            .config-panel { width: 100%; min-width: 100%; border-right: none; }
        }
        .card {
            background: var(--card-bg);
            border-radius: 8px;
            box-shadow: 0 1px 3px rgba(0,0,0,0.1);
            padding: 0.9rem;
            margin-bottom: 0.75rem;
        }
        .card h2 {
            font-size: 0.85rem;
            font-weight: 600;
            margin-bottom: 0.5rem;
            color: var(--primary);
        }
        .form-group { margin-bottom: 0.5rem; }
        .form-group label {
            display: block;
            font-size: 0.7rem;
            font-weight: 500;
            color: var(--text-muted);
            margin-bottom: 0.15rem;
            text-transform: uppercase;
            letter-spacing: 0.3px;
        }
        .form-group input, .form-group select {
            width: 100%;
            padding: 0.4rem 0.5rem;
            border: 1px solid var(--border);
            border-radius: 4px;
            font-size: 0.8rem;
        }
        .form-group input:focus, .form-group select:focus {
            outline: none;
            border-color: var(--primary);
            box-shadow: 0 0 0 3px rgba(37, 99, 235, 0.1);
        }
        .form-row { display: grid; grid-template-columns: repeat(2, 1fr); gap: 0.5rem; }
        .form-row-3 { display: grid; grid-template-columns: repeat(3, 1fr); gap: 0.5rem; }
        .form-hint {
            font-size: 0.68rem;
            color: var(--text-muted);
            margin-top: 0.2rem;
            line-height: 1.4;
        }
        .property-card {
            border: 1px solid var(--border);
            border-radius: 6px;
            padding: 0.6rem;
            margin-bottom: 0.6rem;
        }
        .property-card-header {
            display: flex;
            justify-content: space-between;
            align-items: center;
            font-size: 0.75rem;
            font-weight: 600;
            margin-bottom: 0.4rem;
        }
        .remove-property-btn {
            background: none;
            border: none;
            color: var(--danger);
            font-size: 0.7rem;
            cursor: pointer;
        }
        .remove-property-btn:hover { text-decoration: underline; }
        .btn {
            display: inline-flex;
            align-items: center;
            justify-content: center;
            gap: 0.3rem;
            padding: 0.5rem 1rem;
            font-size: 0.8rem;
            font-weight: 500;
            border: none;
            border-radius: 6px;
            cursor: pointer;
            transition: all 0.2s;
        }
        .btn-primary { background: var(--primary); color: white; }
        .btn-primary:hover { background: var(--primary-dark); }
        .btn-primary:disabled { background: var(--text-muted); cursor: not-allowed; }
        .btn-secondary {
            background: var(--bg);
            color: var(--text);
            border: 1px solid var(--border);
        }
        .btn-secondary:hover { background: var(--border); }
        .btn-group { display: flex; gap: 0.5rem; flex-wrap: wrap; }
        .results-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(180px, 1fr));
            gap: 1rem;
            margin-bottom: 1rem;
        }
        .metric {
            text-align: center;
            padding: 1rem;
            background: var(--card-bg);
            border-radius: 8px;
            box-shadow: 0 1px 3px rgba(0,0,0,0.1);
        }
        .metric-value { font-size: 1.4rem; font-weight: 700; color: var(--primary); }
        .metric-value.danger { color: var(--danger); }
        .metric-value.success { color: var(--success); }
        .metric-label {
            font-size: 0.7rem;
            color: var(--text-muted);
            text-transform: uppercase;
            letter-spacing: 0.3px;
        }
        table.results-table {
            width: 100%;
            border-collapse: collapse;
            font-size: 0.8rem;
        }
        .results-table th {
            text-align: left;
            padding: 0.4rem 0.5rem;
            border-bottom: 2px solid var(--border);
            color: var(--text-muted);
            font-size: 0.7rem;
            text-transform: uppercase;
            letter-spacing: 0.3px;
        }
        .results-table td {
            padding: 0.4rem 0.5rem;
            border-bottom: 1px solid var(--border);
        }
        .results-table .num { text-align: right; font-variant-numeric: tabular-nums; }
        .results-table .total-row td { font-weight: 700; border-top: 2px solid var(--border); }
        .results-table .neg { color: var(--danger); }
        .results-table .note-cell { font-size: 0.7rem; color: var(--text-muted); font-style: italic; }
        .badge {
            display: inline-block;
            padding: 0.1rem 0.5rem;
            border-radius: 9999px;
            font-size: 0.65rem;
            font-weight: 600;
            text-transform: uppercase;
            letter-spacing: 0.3px;
        }
        .badge-warning { background: #ffedd5; color: var(--warning); }
        .badge-info { background: #dbeafe; color: var(--primary); }
        .flag-item {
            display: flex;
            align-items: flex-start;
            gap: 0.5rem;
            padding: 0.35rem 0;
            font-size: 0.8rem;
        }
        .empty-state {
            text-align: center;
            color: var(--text-muted);
            padding: 4rem 1rem;
            font-size: 0.9rem;
        }
        .loading {
            display: none;
            text-align: center;
            padding: 3rem 1rem;
            color: var(--text-muted);
        }
        .loading.show { display: block; }
        .spinner {
            width: 32px;
            height: 32px;
            margin: 0 auto 0.75rem;
            border: 3px solid var(--border);
            border-top-color: var(--primary);
            border-radius: 50%;
            animation: spin 0.8s linear infinite;
        }
        @keyframes spin { to { transform: rotate(360deg); } }
        .error-box {
            background: #fef2f2;
            border: 1px solid #fecaca;
            color: var(--danger);
            border-radius: 6px;
            padding: 0.75rem 1rem;
            font-size: 0.8rem;
        }
    </style>
</head>
<body>
    <div class="header">
        <h1>UK Rental Property Tax Calculator</h1>
        <p>SA105 property income estimate for individual landlords</p>
    </div>
    <div class="container">
        <div class="config-panel">
            <div class="card">
                <h2>Properties</h2>
                <div id="property-list"></div>
                <button type="button" class="btn btn-secondary" onclick="addProperty()">+ Add Property</button>
            </div>
            <div class="card">
                <h2>Other Income</h2>
                <div class="form-group">
                    <label>Employment / pension income (per year)</label>
                    <input type="text" id="other-income" value="0">
                    <div class="form-hint">Taxable income outside the property business. It fills the lower bands first, so it determines the rate your rental profit is taxed at.</div>
                </div>
            </div>
            <div class="card">
                <h2>Tax Year</h2>
                <div id="tax-year-info" class="form-hint">Loading&hellip;</div>
            </div>
            <div class="card">
                <div class="btn-group">
                    <button type="button" id="calc-btn" class="btn btn-primary" onclick="calculate()">Calculate</button>
                    <button type="button" class="btn btn-secondary" onclick="exportFile('csv')">Save CSV</button>
                    <button type="button" class="btn btn-secondary" onclick="exportFile('pdf')">Save PDF</button>
                    <button type="button" class="btn btn-secondary" onclick="downloadPDF()">Download PDF</button>
                </div>
                <div class="form-hint">Estimates only. Figures exclude National Insurance and assume England / Northern Ireland rates.</div>
            </div>
        </div>
        <div class="results-panel">
            <div id="loading" class="loading">
                <div class="spinner"></div>
                <p>Calculating&hellip;</p>
            </div>
            <div id="results-content">
                <div class="empty-state">Add your properties and press Calculate.</div>
            </div>
        </div>
    </div>

    <script>
        let propertyIndex = 0;

        function addProperty(data = null) {
            const container = document.getElementById('property-list');
            const idx = propertyIndex++;
            const card = document.createElement('div');
            card.className = 'property-card';
            card.id = 'property-card-' + idx;
            card.innerHTML =
                '<div class="property-card-header">' +
                    '<span>Property ' + (container.children.length + 1) + '</span>' +
                    '<button type="button" class="remove-property-btn" onclick="removeProperty(' + idx + ')">Remove</button>' +
                '</div>' +
                '<div class="form-row">' +
                    '<div class="form-group">' +
                        '<label>Name</label>' +
                        '<input type="text" id="prop-name-' + idx + '" value="' + (data?.name || '') + '" placeholder="e.g. 12 Station Road">' +
                    '</div>' +
                    '<div class="form-group">' +
                        '<label>Type</label>' +
                        '<select id="prop-type-' + idx + '">' +
                            '<option value="residential">Residential</option>' +
                            '<option value="furnished-holiday">Furnished Holiday Let</option>' +
                            '<option value="commercial">Commercial</option>' +
                        '</select>' +
                    '</div>' +
                '</div>' +
                '<div class="form-row-3">' +
                    '<div class="form-group">' +
                        '<label>Annual Rent</label>' +
                        '<input type="text" id="prop-rent-' + idx + '" value="' + (data?.rent || 0) + '">' +
                    '</div>' +
                    '<div class="form-group">' +
                        '<label>Expenses</label>' +
                        '<input type="text" id="prop-expenses-' + idx + '" value="' + (data?.expenses || 0) + '">' +
                    '</div>' +
                    '<div class="form-group">' +
                        '<label>Mortgage Interest</label>' +
                        '<input type="text" id="prop-interest-' + idx + '" value="' + (data?.mortgage_interest || 0) + '">' +
                    '</div>' +
                '</div>';
            container.appendChild(card);
            if (data?.type) {
                document.getElementById('prop-type-' + idx).value = data.type;
            }
        }

        function removeProperty(idx) {
            const card = document.getElementById('property-card-' + idx);
            if (card) {
                card.remove();
                const container = document.getElementById('property-list');
                Array.from(container.children).forEach((c, i) => {
                    c.querySelector('.property-card-header span').textContent = 'Property ' + (i + 1);
                });
            }
        }

        function getProperties() {
            const container = document.getElementById('property-list');
            const properties = [];
            Array.from(container.children).forEach(card => {
                const idx = card.id.replace('property-card-', '');
                properties.push({
                    name: document.getElementById('prop-name-' + idx).value,
                    type: document.getElementById('prop-type-' + idx).value,
                    rent: parseMoney(document.getElementById('prop-rent-' + idx).value),
                    expenses: parseMoney(document.getElementById('prop-expenses-' + idx).value),
                    mortgage_interest: parseMoney(document.getElementById('prop-interest-' + idx).value)
                });
            });
            return properties;
        }

        function parseMoney(val) {
            if (!val) return 0;
            val = val.toString().toLowerCase().replace(/[£,\s]/g, '');
            if (val.endsWith('m')) return parseFloat(val) * 1000000;
            if (val.endsWith('k')) return parseFloat(val) * 1000;
            return parseFloat(val) || 0;
        }

        function fmtMoney(val) {
            if (val === undefined || val === null || isNaN(val)) return 'N/A';
            const sign = val < 0 ? '-' : '';
            return sign + '£' + Math.abs(val).toLocaleString('en-GB', {
                minimumFractionDigits: 2,
                maximumFractionDigits: 2
            });
        }

        function fmtMoney0(val) {
            if (val === undefined || val === null || isNaN(val)) return 'N/A';
            const sign = val < 0 ? '-' : '';
            return sign + '£' + Math.round(Math.abs(val)).toLocaleString('en-GB');
        }

        function fmtPct(rate) {
            return (rate * 100).toFixed(1) + '%';
        }

        function buildRequest() {
            return {
                properties: getProperties(),
                other_income: parseMoney(document.getElementById('other-income').value)
            };
        }

        async function calculate() {
            const loading = document.getElementById('loading');
            const content = document.getElementById('results-content');
            const btn = document.getElementById('calc-btn');

            loading.classList.add('show');
            content.innerHTML = '';
            btn.disabled = true;

            try {
                const req = buildRequest();
                const res = await fetch('/api/compute', {
                    method: 'POST',
                    headers: { 'Content-Type': 'application/json' },
                    body: JSON.stringify(req)
                });

                const data = await res.json();
                loading.classList.remove('show');
                btn.disabled = false;

                if (!data.success) {
                    content.innerHTML = '<div class="error-box">Error: ' + data.error + '</div>';
                    return;
                }

                renderResults(req, data);
            } catch (err) {
                loading.classList.remove('show');
                btn.disabled = false;
                content.innerHTML = '<div class="error-box">Error: ' + err.message + '</div>';
            }
        }

        function renderResults(req, data) {
            const r = data.result;
            let html = '';

            html += '<div class="results-grid">' +
                '<div class="metric"><div class="metric-value danger">' + fmtMoney(r.final_tax) + '</div><div class="metric-label">Final Estimated Tax</div></div>' +
                '<div class="metric"><div class="metric-value">' + fmtPct(r.effective_rate) + '</div><div class="metric-label">Effective Rate</div></div>' +
                '<div class="metric"><div class="metric-value">' + fmtMoney(r.taxable_income_before_allowance) + '</div><div class="metric-label">Taxable Income</div></div>' +
                '<div class="metric"><div class="metric-value success">' + fmtMoney(r.mortgage_tax_credit) + '</div><div class="metric-label">Mortgage Interest Credit</div></div>' +
                '</div>';

            if (req.properties.length > 0) {
                html += '<div class="card"><h2>Properties</h2><table class="results-table">' +
                    '<tr><th>Name</th><th class="num">Rent</th><th class="num">Expenses</th><th class="num">Interest</th><th class="num">Profit</th></tr>';
                req.properties.forEach(function(p, i) {
                    const profit = p.rent - p.expenses;
                    html += '<tr><td>' + (p.name || 'Property ' + (i + 1)) + '</td>' +
                        '<td class="num">' + fmtMoney(p.rent) + '</td>' +
                        '<td class="num">' + fmtMoney(p.expenses) + '</td>' +
                        '<td class="num">' + fmtMoney(p.mortgage_interest) + '</td>' +
                        '<td class="num' + (profit < 0 ? ' neg' : '') + '">' + fmtMoney(profit) + '</td></tr>';
                });
                html += '<tr class="total-row"><td>Total</td>' +
                    '<td class="num">' + fmtMoney(r.total_rent) + '</td>' +
                    '<td class="num">' + fmtMoney(r.total_expenses) + '</td>' +
                    '<td class="num">' + fmtMoney(r.total_interest) + '</td>' +
                    '<td class="num' + (r.profit_before_interest < 0 ? ' neg' : '') + '">' + fmtMoney(r.profit_before_interest) + '</td></tr>';
                html += '</table></div>';
            }

            html += '<div class="card"><h2>Filing Summary</h2><table class="results-table">';
            const rows = [
                ['Total Rent (Box 20)', r.total_rent],
                ['Allowable Expenses', r.total_expenses],
                ['Mortgage Interest (Box 44)', r.total_interest],
                ['Net Profit (Box 45)', r.profit_before_interest],
                ['Personal Allowance Used', r.personal_allowance],
                ['Income Tax Before Credit', r.income_tax_before_credit],
                ['Mortgage Tax Credit', r.mortgage_tax_credit],
                ['Final Estimated Tax', r.final_tax]
            ];
            rows.forEach(function(row, i) {
                const bold = i === rows.length - 1 ? ' style="font-weight:700;"' : '';
                const neg = row[1] < 0 ? ' neg' : '';
                html += '<tr' + bold + '><td>' + row[0] + '</td><td class="num' + neg + '">' + fmtMoney(row[1]) + '</td></tr>';
            });
            html += '</table></div>';

            if (r.bands && r.bands.length > 0) {
                html += '<div class="card"><h2>Tax by Band</h2><table class="results-table">' +
                    '<tr><th>Band</th><th class="num">Rate</th><th class="num">Amount Taxed</th><th class="num">Tax</th></tr>';
                r.bands.forEach(function(b) {
                    html += '<tr><td>' + b.name + '</td>' +
                        '<td class="num">' + fmtPct(b.rate) + '</td>' +
                        '<td class="num">' + fmtMoney(b.amount) + '</td>' +
                        '<td class="num">' + fmtMoney(b.tax) + '</td></tr>';
                });
                html += '<tr class="total-row"><td>Total</td><td></td>' +
                    '<td class="num">' + fmtMoney(r.taxable_income) + '</td>' +
                    '<td class="num">' + fmtMoney(r.income_tax_before_credit) + '</td></tr>';
                html += '</table></div>';
            }

            if (data.sa105 && data.sa105.length > 0) {
                html += '<div class="card"><h2>SA105 Box Guide</h2><table class="results-table">' +
                    '<tr><th>Box</th><th>Entry</th><th class="num">Amount</th></tr>';
                data.sa105.forEach(function(box) {
                    html += '<tr><td>' + box.box + '</td><td>' + box.label + '</td>' +
                        '<td class="num' + (box.amount < 0 ? ' neg' : '') + '">' + fmtMoney(box.amount) + '</td></tr>';
                    if (box.note) {
                        html += '<tr><td></td><td colspan="2" class="note-cell">' + box.note + '</td></tr>';
                    }
                });
                html += '</table></div>';
            }

            if (r.flags && r.flags.length > 0) {
                html += '<div class="card"><h2>Advisory Flags</h2>';
                r.flags.forEach(function(f) {
                    const cls = f.severity === 'warning' ? 'badge-warning' : 'badge-info';
                    html += '<div class="flag-item"><span class="badge ' + cls + '">' + f.severity + '</span><span>' + f.message + '</span></div>';
                });
                html += '</div>';
            }

            document.getElementById('results-content').innerHTML = html;
        }

        function exportFile(kind) {
            const req = buildRequest();
            fetch('/api/export-' + kind, {
                method: 'POST',
                headers: { 'Content-Type': 'application/json' },
                body: JSON.stringify(req)
            })
            .then(res => res.json())
            .then(data => {
                if (data.success) {
                    showExportNotification(data.file_path, kind.toUpperCase());
                } else {
                    alert('Export failed: ' + data.message);
                }
            })
            .catch(err => {
                alert('Export failed: ' + err.message);
            });
        }

        function downloadPDF() {
            const req = buildRequest();
            fetch('/api/download-pdf', {
                method: 'POST',
                headers: { 'Content-Type': 'application/json' },
                body: JSON.stringify(req)
            })
            .then(res => {
                if (!res.ok) {
                    return res.text().then(text => {
                        throw new Error(text || 'Server error: ' + res.status);
                    });
                }
                return res.blob();
            })
            .then(blob => {
                const a = document.createElement('a');
                a.href = URL.createObjectURL(blob);
                a.download = 'SA105_Rental_Summary.pdf';
                a.click();
                URL.revokeObjectURL(a.href);
            })
            .catch(err => {
                alert('Download failed: ' + err.message);
            });
        }

        function showExportNotification(filePath, label) {
            const existing = document.getElementById('export-notification');
            if (existing) existing.remove();

            const notification = document.createElement('div');
            notification.id = 'export-notification';
            notification.style.cssText = 'position:fixed;bottom:20px;right:20px;background:#065f46;color:white;padding:16px 20px;border-radius:8px;box-shadow:0 4px 12px rgba(0,0,0,0.3);z-index:10000;max-width:500px;font-size:14px;';
            notification.innerHTML = '<div style="display:flex;align-items:flex-start;gap:12px;">' +
                '<div style="flex:1;">' +
                '<div style="font-weight:600;margin-bottom:4px;">' + label + ' Exported Successfully</div>' +
                '<div style="font-size:12px;opacity:0.9;word-break:break-all;">' + filePath + '</div>' +
                '</div>' +
                '<button onclick="this.parentElement.parentElement.remove()" style="background:none;border:none;color:white;font-size:18px;cursor:pointer;padding:0;line-height:1;">&times;</button>' +
                '</div>';
            document.body.appendChild(notification);

            setTimeout(() => {
                const notif = document.getElementById('export-notification');
                if (notif) notif.remove();
            }, 15000);
        }

        async function loadConfig() {
            try {
                const res = await fetch('/api/config');
                const cfg = await res.json();
                const bands = (cfg.tax_bands || []).map(function(b) {
                    const range = b.upper > b.lower
                        ? fmtMoney0(b.lower) + ' to ' + fmtMoney0(b.upper)
                        : 'above ' + fmtMoney0(b.lower);
                    return b.name + ' ' + (b.rate * 100).toFixed(0) + '% (' + range + ')';
                }).join('<br>');
                document.getElementById('tax-year-info').innerHTML =
                    '<strong>' + cfg.year + '</strong> (England / Northern Ireland)<br>' +
                    'Personal allowance ' + fmtMoney0(cfg.personal_allowance) +
                    ', tapered above ' + fmtMoney0(cfg.taper_threshold) + '<br>' +
                    'Bands over income after the allowance:<br>' + bands + '<br>' +
                    'Mortgage interest credit ' + (cfg.interest_credit_rate * 100).toFixed(0) + '%';
            } catch (err) {
                document.getElementById('tax-year-info').textContent =
                    'Could not load tax year constants: ' + err.message;
            }
        }

        addProperty();
        loadConfig();
    </script>
</body>
</html>
`
