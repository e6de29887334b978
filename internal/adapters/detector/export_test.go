package detector

var InteractiveExported = interactive
