// Package render turns a ChartSet into browser-ready artifacts.
//
// Interactive charts are standalone HTML documents built with go-echarts and
// meant to be embedded in the dashboard. Static PNG variants come from
// go-chart for clients that cannot run JavaScript.
package render
