// Package schema is the single source of truth for the column layout of an
// audit row.
//
// The three key lists below are positional: their order is the column order
// of every row ever written to a destination sheet. Keys may only be appended,
// and every append must bump Version so stored rows can be told apart.
package schema

import "slices"

// Version identifies the current column layout.
const Version = 1

// Fixed leading columns of every row.
const (
	TimestampColumn = "timestamp"
	URLColumn       = "url"
)

// leadingColumns is the number of columns before the first metric.
const leadingColumns = 2

var metricKeys = [...]string{
	"CUMULATIVE_LAYOUT_SHIFT_SCORE",
	"FIRST_CONTENTFUL_PAINT_MS",
	"FIRST_INPUT_DELAY_MS",
	"LARGEST_CONTENTFUL_PAINT_MS",
}

var categoryKeys = [...]string{
	"performance",
	"accessibility",
	"best-practices",
	"seo",
	"pwa",
}

var auditKeys = [...]string{
	"aria-required-attr",
	"final-screenshot",
	"legacy-javascript",
	"offscreen-content-hidden",
	"redirects-http",
	"js-libraries",
	"first-contentful-paint-3g",
	"is-on-https",
	"html-lang-valid",
	"duplicated-javascript",
	"duplicate-id-active",
	"no-vulnerable-libraries",
	"video-caption",
	"largest-contentful-paint-element",
	"pwa-page-transitions",
	"efficient-animated-content",
	"deprecations",
	"aria-progressbar-name",
	"button-name",
	"uses-rel-preconnect",
	"errors-in-console",
	"aria-hidden-focus",
	"network-requests",
	"aria-roles",
	"inspector-issues",
	"font-display",
	"doctype",
	"object-alt",
	"full-page-screenshot",
	"td-headers-attr",
	"tap-targets",
	"dlitem",
	"meta-refresh",
	"offscreen-images",
	"third-party-facades",
	"first-cpu-idle",
	"total-blocking-time",
	"unminified-css",
	"pwa-each-page-has-url",
	"cumulative-layout-shift",
	"non-composited-animations",
	"themed-omnibox",
	"th-has-data-cells",
	"layout-shift-elements",
	"aria-required-children",
	"managed-focus",
	"heading-order",
	"uses-responsive-images",
	"definition-list",
	"form-field-multiple-labels",
	"input-image-alt",
	"canonical",
	"external-anchors-use-rel-noopener",
	"visual-order-follows-dom",
	"diagnostics",
	"html-has-lang",
	"no-unload-listeners",
	"focusable-controls",
	"aria-tooltip-name",
	"network-rtt",
	"link-text",
	"long-tasks",
	"preload-fonts",
	"focus-traps",
	"hreflang",
	"appcache-manifest",
	"aria-valid-attr",
	"custom-controls-labels",
	"listitem",
	"pwa-cross-browser",
	"crawlable-anchors",
	"aria-meter-name",
	"font-size",
	"estimated-input-latency",
	"aria-command-name",
	"aria-treeitem-name",
	"uses-webp-images",
	"aria-required-parent",
	"bootup-time",
	"max-potential-fid",
	"link-name",
	"uses-rel-preload",
	"installable-manifest",
	"unused-javascript",
	"notification-on-start",
	"dom-size",
	"structured-data",
	"is-crawlable",
	"uses-text-compression",
	"metrics",
	"valid-lang",
	"interactive",
	"first-contentful-paint",
	"geolocation-on-start",
	"preload-lcp-image",
	"screenshot-thumbnails",
	"password-inputs-can-be-pasted-into",
	"resource-summary",
	"splash-screen",
	"color-contrast",
	"user-timings",
	"uses-long-cache-ttl",
	"duplicate-id-aria",
	"unused-css-rules",
	"total-byte-weight",
	"meta-description",
	"unsized-images",
	"timing-budget",
	"uses-optimized-images",
	"third-party-summary",
	"redirects",
	"first-meaningful-paint",
	"main-thread-tasks",
	"aria-hidden-body",
	"http-status-code",
	"aria-input-field-name",
	"unminified-javascript",
	"largest-contentful-paint",
	"robots-txt",
	"content-width",
	"service-worker",
	"accesskeys",
	"meta-viewport",
	"aria-allowed-attr",
	"aria-toggle-field-name",
	"image-size-responsive",
	"render-blocking-resources",
	"critical-request-chains",
	"uses-passive-event-listeners",
	"charset",
	"logical-tab-order",
	"maskable-icon",
	"interactive-element-affordance",
	"plugins",
	"list",
	"frame-title",
	"server-response-time",
	"image-aspect-ratio",
	"tabindex",
	"bypass",
	"custom-controls-roles",
	"document-title",
	"viewport",
	"speed-index",
	"mainthread-work-breakdown",
	"performance-budget",
	"apple-touch-icon",
	"no-document-write",
	"valid-source-maps",
	"aria-valid-attr-value",
	"use-landmarks",
	"image-alt",
	"label",
	"network-server-latency",
}

// MetricKeys returns the field-experience metric keys in column order.
func MetricKeys() []string { return slices.Clone(metricKeys[:]) }

// CategoryKeys returns the lab category keys in column order.
func CategoryKeys() []string { return slices.Clone(categoryKeys[:]) }

// AuditKeys returns the lab audit identifiers in column order.
func AuditKeys() []string { return slices.Clone(auditKeys[:]) }

// Width returns the total number of columns in a row.
func Width() int {
	return leadingColumns + len(metricKeys) + len(categoryKeys) + len(auditKeys)
}

// Header returns the column names of a row, suitable as the first row of a
// destination sheet.
func Header() []string {
	header := make([]string, 0, Width())
	header = append(header, TimestampColumn, URLColumn)
	header = append(header, metricKeys[:]...)
	header = append(header, categoryKeys[:]...)
	header = append(header, auditKeys[:]...)
	return header
}

// MetricOffset is the index of the first metric column.
func MetricOffset() int { return leadingColumns }

// CategoryOffset is the index of the first category column.
func CategoryOffset() int { return MetricOffset() + len(metricKeys) }

// AuditOffset is the index of the first audit column.
func AuditOffset() int { return CategoryOffset() + len(categoryKeys) }
