package http

import "html/template"

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Weather Forecast</title>
<link rel="stylesheet" href="https://cdnjs.cloudflare.com/ajax/libs/font-awesome/6.5.2/css/all.min.css">
<style>
.container { text-align: center; font-family: Arial, sans-serif; color: #333; }
.error { color: #c0392b; margin: 10px 0; }
.carousel { display: flex; align-items: center; justify-content: center; gap: 15px; margin-top: 20px; }
.card { width: 250px; height: 300px; border-radius: 10px; box-shadow: 0 4px 6px rgba(0,0,0,.1);
  background: linear-gradient(135deg, #f8f9fa, #e9ecef); display: flex; flex-direction: column; }
.card-header { background: #007BFF; color: #fff; border-radius: 10px 10px 0 0; padding: 10px; font-weight: bold; }
.card-content { flex-grow: 1; display: flex; flex-direction: column; justify-content: center; }
.weather-icon { font-size: 2rem; margin: 10px 0; }
</style>
</head>
<body>
<div class="container">
  <h1>Weather Forecast</h1>
  <form method="post" action="/search">
    <input name="zip" placeholder="Enter ZIP code" value="{{.PostalCode}}">
    <button type="submit">Get Forecast</button>
  </form>
  {{if .Error}}<div class="error">{{.Error}}</div>{{end}}
  {{if .HasForecast}}
  <h2>Forecast for: {{.City}}, {{.State}}</h2>
  <div class="carousel">
    <form method="post" action="/prev"><button type="submit" aria-label="previous"{{if not .CanPrev}} disabled{{end}}><i class="fa-solid fa-arrow-left"></i></button></form>
    {{range .Cards}}
    <div class="card">
      <div class="card-header">{{.Name}}</div>
      <div class="card-content">
        <i class="fa-solid fa-{{.Icon}} weather-icon" style="color: {{.Color}}"></i>
        <p><strong>Temp:</strong> {{.Temperature}}&deg;F</p>
        <p><strong>Condition:</strong> {{.Condition}}</p>
      </div>
    </div>
    {{end}}
    <form method="post" action="/next"><button type="submit" aria-label="next"{{if not .CanNext}} disabled{{end}}><i class="fa-solid fa-arrow-right"></i></button></form>
  </div>
  {{end}}
</div>
</body>
</html>
`))
