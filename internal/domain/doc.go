// Package domain models the Kyoto full-flowering cherry blossom record series.
//
// # Data Source
//
// Records come from Yasuyuki Aono's historical phenology spreadsheet
// (KyotoFullFlower7.xls, http://atmenv.envi.osakafu-u.ac.jp/aono/kyophenotemp4/).
// The workbook opens with a 25-row preamble of notes and code tables, followed
// by a header row and one row per year from 801 AD onward. Roughly 827 years
// carry a usable flowering date.
//
// # Column Conventions
//
//	AD                          calendar year, unique and increasing in practice
//	Full-flowering date (DOY)   day-of-year ordinal, 1 = Jan 1
//	Full-flowering date         month and day packed as MMDD: 402 = April 2
//	Source code                 numeric source identifier
//	Data type code              provenance; 4 = title in Japanese poetry
//	Reference Name              citation; "-" means no reference
//
// The packed date is NOT a day count. It decomposes arithmetically into
// month = v / 100 and day = v % 100, and is only valid when that pair names a
// real day in the non-leap reference year 1900. See [DecomposeDate].
//
// # Missing Values
//
// Empty cells and configured sentinels (by default "-") become nil pointers.
// A record without a DOY ordinal is dropped by [FilterObserved]; every
// derivation and statistic runs on the filtered series. A post-filter record
// whose packed date does not decompose keeps nil month, day and date fields but
// still counts toward DOY statistics and frequency tables.
//
// # Rolling Mean
//
// [RollingMean] supports two anchors. [AnchorYears] (the default) averages the
// records whose year falls in the trailing W calendar years, so gaps in the
// series shrink the sample. [AnchorRows] averages the trailing W rows,
// matching a plain integer rolling window.
package domain
