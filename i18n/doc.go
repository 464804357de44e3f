// Package i18n resolves the user-visible strings of the views. Strings live in YAML catalogs
// per language; a Translator looks them up relative to a namespace, so that a view can ask for
// ".title" and get the value of "ChangePin.title".
package i18n
