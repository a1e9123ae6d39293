// Package drive implements the Fetcher for gdrive:// locators.
//
// A locator names a Drive file ID, either bare (gdrive://1AbC) or in the
// files/ form used by Drive URIs (gdrive://files/1AbC). Content is streamed
// with files.get?alt=media, so shared files larger than the virus-scan
// threshold download without the confirmation page the web endpoint shows.
package drive
