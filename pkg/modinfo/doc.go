// Package modinfo extracts display metadata from the raw source text of a
// plugin module.
//
// # Overview
//
// Modules carry their metadata in loosely structured comments and docstrings.
// Extraction is a pure function from source text to ModuleInfo so it can be
// tested against fixed fixtures without network access.
//
// # Formats
//
// Docstring (default): the name comes from the first "name": "<value>"
// fragment in the text and the description from the docstring of the first
// class deriving from loader.Module.
//
//	class WeatherMod(loader.Module):
//	    """Shows the weather"""
//	    strings = {"name": "Weather"}
//
// Header (legacy): the name and description come from comment lines.
//
//	# Name: Weather
//	# Description: Shows the weather
//
// Both formats read banner and developer from "# meta" comments:
//
//	# meta banner: https://example.com/banner.png
//	# meta developer: @someone
//
// # Usage Example
//
//	info := modinfo.Extract(source, modinfo.FormatDocstring)
//	if info.Name != nil {
//		fmt.Println(*info.Name)
//	}
package modinfo
