// Package twd provides exchange rate sources for the New Taiwan Dollar (TWD).
//
// # Sources
//
// ## findrate
//
// URL: https://www.findrate.tw/{CURRENCY}/
//
// Scrapes the per-currency comparison board listing every Taiwanese bank's
// posted rates. The table is the first one following the heading
// "對新台幣匯率各銀行外匯牌告匯率比較"; its first body row is a header.
// Each remaining row yields one RawRow:
//
//	bank | cash buy | cash sell | spot buy | spot sell | quoted at
//
// ## bot
//
// URL: https://rate.bot.com.tw/xrt/quote/{YYYY}-{MM}/{CURRENCY}
//
// Scrapes one month of Bank of Taiwan posted rates from table.table-striped.
// Page columns are reordered into the common RawRow layout:
//
//	date | currency | cash buy | cash sell | spot buy | spot sell
//	  -> cash buy | cash sell | spot buy | spot sell | date
//
// Rows with fewer cells than the layout needs are emitted with no cells,
// so the normalizer drops and reports them.
//
// Neither source parses numbers; unavailable prices are published as "--"
// and left for the normalizer.
package twd
