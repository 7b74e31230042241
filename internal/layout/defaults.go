package layout

// Default returns the built-in ImagenesPDF skeleton.
func Default() Layout {
	return Layout{
		Structure:    defaultStructure(),
		EmptyDirs:    append([]string(nil), defaultEmptyDirs...),
		Descriptions: NewDescriptions(defaultDescriptions),
	}
}

func defaultStructure() Structure {
	return Structure{
		{Path: RootKey, Files: []string{
			"README.md",
			"pyproject.toml",
			"requirements.txt",
			".gitignore",
			".env.example",
		}},
		{Path: "src/imagenespdf", Files: []string{
			"__init__.py",
			"cli.py",
			"config.py",
			"logging_setup.py",
			"env_check.py",
			"utils_fs.py",
			"ingest.py",
			"vendor_detector.py",
			"years.py",
			"ocr.py",
			"extract_images.py",
			"excel_writer.py",
			"csv_export.py",
		}},
		{Path: "src/imagenespdf/schema", Files: []string{
			"excel_layout.yaml",
			"dims.yaml",
			"features.yaml",
			"vendor_signatures.yaml",
		}},
		{Path: "tests", Files: []string{
			"__init__.py",
			"conftest.py",
			"test_config.py",
			"test_ingest.py",
			"test_vendor_detector.py",
			"test_years.py",
		}},
		{Path: "scripts", Files: []string{
			"run.bat",
			"setup_env.bat",
		}},
		{Path: "docs", Files: []string{
			"ARCHITECTURE.md",
			"USAGE.md",
		}},
	}
}

var defaultEmptyDirs = []string{
	"input/pdfs",
	"out/images/_flat",
	"out/xlsx",
	"out/csv",
	"out/logs",
	"out/cache",
}

var defaultDescriptions = map[string]string{
	"src":                    "Código fuente",
	"src/imagenespdf":        "Paquete principal de ImagenesPDF",
	"src/imagenespdf/schema": "Configuraciones YAML (hojas Excel, catálogos, firmas)",
	"tests":                  "Pruebas unitarias (pytest)",
	"scripts":                "Scripts de arranque para Windows",
	"docs":                   "Documentación del proyecto",
	"input":                  "Entradas del pipeline",
	"input/pdfs":             "Catálogos PDF a procesar",
	"out":                    "Salidas generadas",
	"out/images":             "Imágenes extraídas por catálogo",
	"out/images/_flat":       "Imágenes extraídas sin jerarquía",
	"out/xlsx":               "Libros Excel generados",
	"out/csv":                "Exportaciones CSV",
	"out/logs":               "Logs de ejecución",
	"out/cache":              "Caché de metadatos de ingesta",

	"README.md":        "Descripción general y guía rápida",
	"pyproject.toml":   "Metadatos del paquete y dependencias",
	"requirements.txt": "Dependencias fijadas para pip",
	".gitignore":       "Rutas excluidas del control de versiones",
	".env.example":     "Variables de entorno de ejemplo",

	"__init__.py":             "Inicialización del paquete",
	"cli.py":                  "Interfaz de línea de comandos",
	"config.py":               "Carga y acceso a configuraciones YAML",
	"logging_setup.py":        "Logging estructurado y colorizado",
	"env_check.py":            "Verificación de dependencias del entorno",
	"utils_fs.py":             "Utilidades del sistema de archivos (hashes, manifiestos)",
	"ingest.py":               "Ingesta de PDFs y extracción de metadatos",
	"vendor_detector.py":      "Detección de proveedor por firmas",
	"years.py":                "Normalización de rangos de años",
	"ocr.py":                  "Reconocimiento óptico de caracteres",
	"extract_images.py":       "Extracción de imágenes de páginas PDF",
	"excel_writer.py":         "Escritura de libros Excel",
	"csv_export.py":           "Exportación CSV",
	"tests/__init__.py":       "Marcador del paquete de pruebas",
	"conftest.py":             "Fixtures compartidas de pytest",
	"test_config.py":          "Pruebas de configuración",
	"test_ingest.py":          "Pruebas de ingesta",
	"test_vendor_detector.py": "Pruebas del detector de proveedor",
	"test_years.py":           "Pruebas de normalización de años",

	"excel_layout.yaml":      "Definición de hojas, columnas y validaciones",
	"dims.yaml":              "Catálogos iniciales (fabricantes, focos)",
	"features.yaml":          "Taxonomía de características",
	"vendor_signatures.yaml": "Firmas por proveedor para el detector",

	"run.bat":         "Ejecuta el pipeline completo",
	"setup_env.bat":   "Crea el entorno virtual e instala dependencias",
	"ARCHITECTURE.md": "Arquitectura y flujo de datos",
	"USAGE.md":        "Guía de uso",
}
