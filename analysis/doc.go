// Package analysis builds narrative market forecasts from recent
// exchange rates and news, using a generative-text service
package analysis
