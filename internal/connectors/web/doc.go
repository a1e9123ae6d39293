// Package web implements the Fetcher for http:// and https:// locators.
//
// Google Drive share links are normalised to direct-download URLs, and the
// "can't scan this file for viruses" interstitial Drive serves for large
// files is followed automatically, either through its download_warning
// cookie or its confirm form.
package web
