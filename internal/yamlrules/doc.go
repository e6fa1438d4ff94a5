// Package yamlrules loads resolver rule files written in YAML or JSON.
//
// The file shape mirrors the HCL format with camelCase keys:
//
//	appRoot: /abs/app
//	staticComponents: true
//	staticHelpers: true
//	activePackageRules:
//	  - package: my-addon
//	    roots: [/abs/node_modules/my-addon]
//	    components:
//	      "<Menu />":
//	        acceptsComponentArguments: [title, {name: "@body", becomes: this.body}]
//	        yieldsSafeComponents: [true, {header: true}]
//	    appTemplates:
//	      templates/index.hbs:
//	        disambiguate: {hello-world: component}
//
// JSON documents are read by the same decoder.
package yamlrules
