package render

const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<link rel="stylesheet" href="assets/style.css">
</head>
<body>
<header>
  <h1>{{.Title}}</h1>
  <p class="date">Analysis date: {{.Date}}</p>
</header>

<section class="cards">
  <div class="card">
    <h2>Spot</h2>
    <p class="big">{{.Spot}}</p>
  </div>
  <div class="card regime-{{.Regime.Level}}">
    <h2>Volatility Level</h2>
    <p class="big">{{.Regime.Level}}</p>
  </div>
  <div class="card regime-{{.Regime.Curve}}">
    <h2>Curve</h2>
    <p class="big">{{.Regime.Curve}}</p>
  </div>
  <div class="card risk-{{.Risk.Level}}">
    <h2>Risk Score</h2>
    <p class="big">{{.RiskTotal}}<span class="unit">/100</span></p>
    <p>{{.Risk.Level}} RISK</p>
  </div>
</section>

<section>
  <h2>Spot history ({{.WindowDays}} trading days)</h2>
  {{.Sparkline}}
</section>

<section class="columns">
  <div>
    <h2>Derived metrics</h2>
    <table>
      <tr><th>Percentile rank</th><td>{{.Percentile}}</td></tr>
      <tr><th>Term-structure slope</th><td>{{.Slope}}</td></tr>
      <tr><th>Z-score</th><td>{{.ZScore}}</td></tr>
    </table>
  </div>
  <div>
    <h2>Term structure</h2>
    <table>
      <tr><th>Maturity</th><th>Price</th></tr>
      {{range .Curve}}<tr><td>{{.Maturity}}</td><td>{{.Price}}</td></tr>
      {{end}}
    </table>
  </div>
</section>

<section>
  <h2>Signals</h2>
  <ul class="signals">
    {{if .Risk.Crash}}<li class="crash">CRASH signal active</li>
    {{else if .Risk.Warning}}<li class="warning">WARNING signal active</li>
    {{else}}<li class="calm">No active signals</li>
    {{end}}
    {{if .Risk.AlertRequired}}<li class="alert">Alert required</li>{{end}}
  </ul>
</section>

<footer>
  <p>Machine-readable summary: <a href="summary.json">summary.json</a> &middot; chart data: <a href="assets/series.json">assets/series.json</a></p>
</footer>
</body>
</html>
`

const styleCSS = `body {
  font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif;
  margin: 2rem auto;
  max-width: 960px;
  padding: 0 1rem;
  color: #1c1e21;
}
header h1 { margin-bottom: 0.25rem; }
.date { color: #666; }
.cards { display: flex; gap: 1rem; flex-wrap: wrap; }
.card {
  flex: 1 1 180px;
  border: 1px solid #ddd;
  border-radius: 8px;
  padding: 1rem;
}
.card h2 { margin: 0 0 0.5rem; font-size: 0.9rem; text-transform: uppercase; color: #666; }
.big { font-size: 2rem; margin: 0; }
.unit { font-size: 1rem; color: #888; }
.regime-extreme, .risk-HIGH { border-color: #c0392b; background: #fdecea; }
.regime-elevated, .risk-MEDIUM { border-color: #e67e22; background: #fdf3e7; }
.regime-low, .risk-LOW { border-color: #27ae60; background: #ecf9f0; }
.regime-backwardation { border-color: #c0392b; }
.regime-contango { border-color: #27ae60; }
.spark { width: 100%; height: auto; }
.spark polyline { stroke: #2c3e50; }
.columns { display: flex; gap: 2rem; flex-wrap: wrap; }
table { border-collapse: collapse; }
th, td { text-align: left; padding: 0.25rem 0.75rem 0.25rem 0; }
th { color: #666; font-weight: 600; }
.signals { list-style: none; padding: 0; }
.signals li { padding: 0.5rem 0.75rem; border-radius: 6px; margin-bottom: 0.5rem; }
.signals .crash { background: #fdecea; color: #c0392b; }
.signals .warning { background: #fdf3e7; color: #b9770e; }
.signals .calm { background: #ecf9f0; color: #1e8449; }
.signals .alert { background: #c0392b; color: #fff; }
footer { margin-top: 2rem; color: #888; font-size: 0.85rem; }
`
