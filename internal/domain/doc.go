// Package domain models the annual surface temperature change dataset and the
// chart specifications derived from it.
//
// # Data Source
//
// The input is the IMF Climate Change Indicators "Annual Surface Temperature
// Change" table, exported as CSV. Each row is one country; values are the
// temperature change in degrees Celsius relative to the 1951-1980 baseline.
//
// # Wide Layout
//
//	ObjectId,Country,ISO2,ISO3,Indicator,Unit,Source,CTS_Code,CTS_Name,CTS_Full_Descriptor,F1961,F1962,...
//
// Year columns carry a single "F" marker followed by a four-digit year. Empty
// cells mean the value was not reported for that year.
//
// # Tidy Layout
//
// [Reshape] drops the metadata columns and melts the year columns into one
// [TidyRecord] per (country, year). Records are emitted column-major: every
// country for the first year column, then every country for the next. Years are
// integers; missing values stay nil so the (country, year) cross product is
// always complete.
//
// # Charts
//
// [BuildBarChart] and [BuildChoropleth] produce Plotly figure specifications
// (data + layout) that the dashboard page renders as-is. [Countdown] computes
// the time left until the fixed 1.5°C milestone.
package domain
