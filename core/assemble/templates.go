package assemble

// Fixed templates for the non-document parts of an output package.
// Only the main document part and the two core-properties timestamps
// vary per export; everything else is constant.

const xmlDecl = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

const contentTypesXML = xmlDecl +
	`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>` +
	`<Override PartName="/word/fontTable.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.fontTable+xml"/>` +
	`<Override PartName="/word/settings.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.settings+xml"/>` +
	`<Override PartName="/word/webSettings.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.webSettings+xml"/>` +
	`<Override PartName="/docProps/app.xml" ContentType="application/vnd.openxmlformats-officedocument.extended-properties+xml"/>` +
	`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>` +
	`</Types>`

const packageRelsXML = xmlDecl +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>` +
	`<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties" Target="docProps/app.xml"/>` +
	`</Relationships>`

// defaultDocumentRelsXML is used when the source package carried no
// document relationships part.
const defaultDocumentRelsXML = xmlDecl +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/fontTable" Target="fontTable.xml"/>` +
	`<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/settings" Target="settings.xml"/>` +
	`<Relationship Id="rId4" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/webSettings" Target="webSettings.xml"/>` +
	`</Relationships>`

// defaultStylesXML is used when the source package carried no styles part.
const defaultStylesXML = xmlDecl +
	`<w:styles xmlns:w="http://schemas.openxmlformats.org/officeDocument/2006/wordprocessingml/main">` +
	`<w:docDefaults><w:rPrDefault><w:rPr><w:rFonts w:ascii="Calibri" w:hAnsi="Calibri"/><w:sz w:val="22"/></w:rPr></w:rPrDefault></w:docDefaults>` +
	`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>` +
	`</w:styles>`

const fontTableXML = xmlDecl +
	`<w:fonts xmlns:w="http://schemas.openxmlformats.org/officeDocument/2006/wordprocessingml/main">` +
	`<w:font w:name="Calibri"><w:pitch w:val="variable"/><w:family w:val="swiss"/></w:font>` +
	`<w:font w:name="Times New Roman"><w:pitch w:val="variable"/><w:family w:val="roman"/></w:font>` +
	`</w:fonts>`

const settingsXML = xmlDecl +
	`<w:settings xmlns:w="http://schemas.openxmlformats.org/officeDocument/2006/wordprocessingml/main">` +
	`<w:defaultTabStop w:val="708"/>` +
	`</w:settings>`

const webSettingsXML = xmlDecl +
	`<w:webSettings xmlns:w="http://schemas.openxmlformats.org/officeDocument/2006/wordprocessingml/main">` +
	`<w:optimizeForBrowser/>` +
	`</w:webSettings>`

const appPropsXML = xmlDecl +
	`<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties" xmlns:vt="http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes">` +
	`<Application>doc-flow-reorder</Application>` +
	`<DocSecurity>0</DocSecurity>` +
	`<ScaleCrop>false</ScaleCrop>` +
	`<SharedDoc>false</SharedDoc>` +
	`</Properties>`

// corePropsXML expects two W3CDTF timestamps: created, modified.
const corePropsXML = xmlDecl +
	`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" ` +
	`xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" ` +
	`xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` +
	`<dcterms:created xsi:type="dcterms:W3CDTF">%s</dcterms:created>` +
	`<dcterms:modified xsi:type="dcterms:W3CDTF">%s</dcterms:modified>` +
	`</cp:coreProperties>`
