package dashboard

import (
	"encoding/json"
	"html/template"

	"floodwatch/internal/cfg"
)

type templateData struct {
	Title  string
	Styles map[string]cfg.ChartStyle
	Debug  bool
}

// jsonFunc serializes a value for embedding in the page's script block.
func jsonFunc(v any) template.JS {
	b, err := json.Marshal(v)
	if err != nil {
		return template.JS("null")
	}
	return template.JS(b)
}

var pageTemplate = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"json": jsonFunc,
}).Parse(pageHTML))

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<script src="https://cdn.jsdelivr.net/npm/chart.js@4.4.1/dist/chart.umd.min.js"></script>
<style>
  * { box-sizing: border-box; margin: 0; padding: 0; }
  body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
         background: #f0f4f8; color: #2d3748; }
  header { background: #1a365d; color: #fff; padding: 16px 24px; display: flex;
           justify-content: space-between; align-items: center; }
  header h1 { font-size: 1.3em; font-weight: 600; }
  #statusLine { font-size: 0.85em; opacity: 0.85; }
  #riskBanner { padding: 14px 24px; color: #fff; font-weight: 600; font-size: 1.1em;
                background: #28a745; transition: background 0.3s; }
  .grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(420px, 1fr));
          gap: 16px; padding: 16px 24px; }
  .card { background: #fff; border-radius: 8px; padding: 16px;
          box-shadow: 0 1px 3px rgba(0,0,0,0.12); }
  .card h2 { font-size: 1em; margin-bottom: 12px; color: #4a5568; }
  .card canvas { max-height: 260px; }
  #riverCard .level { font-size: 2.2em; font-weight: 700; }
  #riverCard .meta { color: #718096; font-size: 0.9em; margin-top: 4px; }
  #mapFrame { width: 100%; height: 320px; border: 0; border-radius: 4px; }
  .regionError { color: #c53030; font-size: 0.85em; margin-top: 8px; }
  #loadingOverlay { position: fixed; inset: 0; background: rgba(255,255,255,0.92);
                    display: flex; flex-direction: column; align-items: center;
                    justify-content: center; z-index: 10; }
  .spinner { width: 42px; height: 42px; border: 4px solid #cbd5e0;
             border-top-color: #1a365d; border-radius: 50%;
             animation: spin 0.9s linear infinite; margin-bottom: 12px; }
  @keyframes spin { to { transform: rotate(360deg); } }
  #errorModal { position: fixed; inset: 0; background: rgba(0,0,0,0.5); display: none;
                align-items: center; justify-content: center; z-index: 20; }
  #errorModal .box { background: #fff; border-radius: 8px; padding: 24px; max-width: 420px;
                     text-align: center; }
  #errorModal button { margin-top: 16px; padding: 8px 24px; background: #1a365d;
                       color: #fff; border: 0; border-radius: 4px; cursor: pointer; }
  .mockBadge { background: #805ad5; color: #fff; font-size: 0.7em; padding: 2px 8px;
               border-radius: 10px; margin-left: 8px; vertical-align: middle; display: none; }
</style>
</head>
<body>
<header>
  <h1>{{.Title}}<span id="mockBadge" class="mockBadge">MOCK DATA</span></h1>
  <div id="statusLine">Connecting&hellip;</div>
</header>
<div id="riskBanner">Loading flood risk&hellip;</div>
<div class="grid">
  <div class="card" id="riverCard">
    <h2 id="riverTitle">River Level</h2>
    <div class="level"><span id="riverLevel">--</span> <span id="riverUnit"></span></div>
    <div class="meta" id="riverMeta"></div>
    <div class="regionError" id="riverError"></div>
  </div>
  <div class="card">
    <h2>5-Day Rainfall Forecast</h2>
    <canvas id="rainForecastChart"></canvas>
    <div class="regionError" id="rainForecastError"></div>
  </div>
  <div class="card">
    <h2>5-Day River Level Forecast</h2>
    <canvas id="riverForecastChart"></canvas>
    <div class="regionError" id="riverForecastError"></div>
  </div>
  <div class="card">
    <h2>30-Day River History</h2>
    <canvas id="historyChart"></canvas>
    <div class="regionError" id="historyError"></div>
  </div>
  <div class="card">
    <h2>Monthly Rainfall Comparison</h2>
    <canvas id="comparisonChart"></canvas>
    <div class="regionError" id="comparisonError"></div>
  </div>
  <div class="card">
    <h2>Flood Extent Map</h2>
    <iframe id="mapFrame" title="Flood extent map"></iframe>
  </div>
</div>
<div id="loadingOverlay">
  <div class="spinner"></div>
  <div>Loading flood data&hellip;</div>
</div>
<div id="errorModal">
  <div class="box">
    <h2>Unable to load dashboard data</h2>
    <p id="errorModalText"></p>
    <button id="retryButton" onclick="retryLoad()">Retry</button>
  </div>
</div>
<script>
const chartStyles = {{json .Styles}};
const charts = {};

const slots = [
  { slot: "rainForecast", canvas: "rainForecastChart" },
  { slot: "riverForecast", canvas: "riverForecastChart" },
  { slot: "history", canvas: "historyChart" },
  { slot: "comparison", canvas: "comparisonChart" },
];

function setText(id, text) {
  const el = document.getElementById(id);
  if (el) el.textContent = text;
}

function renderChart(slot, canvasId, data) {
  const el = document.getElementById(canvasId);
  if (!el || !data || !data.labels || data.labels.length === 0) return;
  const style = chartStyles[slot] || {};
  if (charts[slot]) {
    charts[slot].destroy();
  }
  charts[slot] = new Chart(el.getContext("2d"), {
    type: style.type || "line",
    data: {
      labels: data.labels,
      datasets: [{
        label: style.axisLabel || "",
        data: data.series,
        borderColor: style.borderColor,
        backgroundColor: style.fillColor,
        borderWidth: 2,
        fill: style.type === "line",
        tension: 0.3,
      }],
    },
    options: {
      responsive: true,
      plugins: {
        legend: { display: false },
        tooltip: {
          callbacks: {
            afterLabel: function(ctx) {
              const tips = data.tooltips || [];
              return tips[ctx.dataIndex] || "";
            },
          },
        },
      },
      scales: {
        y: { title: { display: !!style.axisLabel, text: style.axisLabel || "" } },
      },
    },
  });
}

function render(snapshot) {
  const overlay = document.getElementById("loadingOverlay");
  if (overlay && snapshot.ready) overlay.style.display = "none";

  const modal = document.getElementById("errorModal");
  if (modal) {
    if (snapshot.initError) {
      setText("errorModalText", snapshot.initError);
      modal.style.display = "flex";
    } else {
      modal.style.display = "none";
    }
  }

  const badge = document.getElementById("mockBadge");
  if (badge) badge.style.display = snapshot.mockMode ? "inline-block" : "none";

  const banner = document.getElementById("riskBanner");
  if (banner) {
    if (snapshot.riskError) {
      banner.style.background = "#718096";
      banner.textContent = snapshot.riskError;
    } else if (snapshot.riskStyle) {
      banner.style.background = snapshot.riskStyle.color;
      banner.textContent = snapshot.riskStyle.icon + " " + snapshot.riskStyle.label;
    }
  }

  if (snapshot.river) {
    setText("riverTitle", snapshot.river.riverName + " at " + snapshot.river.stationName);
    setText("riverLevel", snapshot.river.currentLevel.toFixed(2));
    setText("riverUnit", snapshot.river.unit);
    setText("riverMeta", "Normal: " + snapshot.river.normalLevel +
      snapshot.river.unit + " · Danger: " + snapshot.river.dangerLevel + snapshot.river.unit);
  }
  setText("riverError", snapshot.riverError || "");

  setText("rainForecastError", snapshot.rainForecastError || "");
  setText("riverForecastError", snapshot.riverForecastError || "");
  setText("historyError", snapshot.historyLocal ? "Showing locally stored readings" : (snapshot.historyError || ""));
  setText("comparisonError", snapshot.comparisonError || "");

  if (snapshot.charts) {
    for (const s of slots) {
      renderChart(s.slot, s.canvas, snapshot.charts[s.slot]);
    }
  }

  const frame = document.getElementById("mapFrame");
  if (frame && snapshot.mapUrl && frame.src !== snapshot.mapUrl) {
    frame.src = snapshot.mapUrl;
  }

  setText("statusLine", "Updated " + (snapshot.lastUpdate ?
    new Date(snapshot.lastUpdate).toLocaleTimeString() : "--") +
    " · Uptime " + (snapshot.uptime || "--"));
}

function retryLoad() {
  fetch("/api/reload", { method: "POST" }).then(function() {
    const modal = document.getElementById("errorModal");
    if (modal) modal.style.display = "none";
    const overlay = document.getElementById("loadingOverlay");
    if (overlay) overlay.style.display = "flex";
  });
}

function connect() {
  const proto = location.protocol === "https:" ? "wss:" : "ws:";
  const ws = new WebSocket(proto + "//" + location.host + "/ws");
  ws.onmessage = function(ev) {
    render(JSON.parse(ev.data));
  };
  ws.onclose = function() {
    setText("statusLine", "Disconnected, retrying…");
    setTimeout(connect, 3000);
  };
}

{{if .Debug}}
window.addEventListener("error", function(ev) {
  setText("statusLine", "Error: " + ev.message);
});
window.addEventListener("unhandledrejection", function(ev) {
  setText("statusLine", "Error: " + ev.reason);
});
{{end}}

fetch("/api/snapshot").then(function(r) { return r.json(); }).then(render);
connect();
</script>
</body>
</html>`
