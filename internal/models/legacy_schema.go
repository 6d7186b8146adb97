// internal/models/legacy_schema.go
package models

// LegacyBusinessSchema is the JSON schema served by the schema endpoint and
// used to validate create requests.
const LegacyBusinessSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "LegacyBusiness",
  "description": "San Francisco Legacy Business Registry entry",
  "type": "object",
  "required": ["business_name"],
  "properties": {
    "business_name": {"type": "string", "minLength": 1, "title": "Business Name", "description": "Official registered business name"},
    "legal_name": {"type": "string", "title": "Legal Business Name"},
    "dba_name": {"type": "string", "title": "DBA Name"},
    "founding_year": {"type": "integer", "minimum": 1850, "maximum": 2024, "title": "Year Founded"},
    "years_at_current_location": {"type": "integer", "minimum": 0, "maximum": 200, "title": "Years at Current Location"},
    "current_address": {"type": "string", "title": "Current Address"},
    "neighborhood": {
      "type": "string",
      "title": "Neighborhood",
      "enum": ["Chinatown", "Mission District", "North Beach", "Castro", "Haight-Ashbury", "SoMa",
               "Financial District", "Nob Hill", "Richmond", "Sunset", "Marina", "Pacific Heights"]
    },
    "location_history": {
      "type": "array",
      "title": "Location History",
      "items": {
        "type": "object",
        "required": ["address", "start_year"],
        "properties": {
          "address": {"type": "string", "minLength": 1},
          "start_year": {"type": "integer", "minimum": 1850, "maximum": 2024},
          "end_year": {"type": "integer", "minimum": 1850, "maximum": 2024},
          "is_current": {"type": "boolean"}
        }
      }
    },
    "business_type": {"type": "string", "title": "Business Type"},
    "business_category": {"type": "string", "title": "Legacy Business Category"},
    "founding_story": {"type": "string", "title": "Founding Story"},
    "cultural_significance": {"type": "string", "title": "Cultural Significance"},
    "physical_traditions": {"type": "string", "title": "Physical Features & Traditions"},
    "community_impact": {"type": "string", "title": "Community Impact"},
    "historical_significance": {"type": "string", "title": "Historical Significance"},
    "ownership_history": {
      "type": "array",
      "title": "Ownership History",
      "items": {
        "type": "object",
        "required": ["owner_name"],
        "properties": {
          "owner_name": {"type": "string", "minLength": 1},
          "start_year": {"type": "integer", "minimum": 1850, "maximum": 2024},
          "end_year": {"type": "integer", "minimum": 1850, "maximum": 2024},
          "relationship": {"type": "string"},
          "generation": {"type": "integer", "minimum": 1, "maximum": 10}
        }
      }
    },
    "recognition": {
      "type": "array",
      "title": "Awards & Recognition",
      "items": {
        "type": "object",
        "required": ["title", "issuer"],
        "properties": {
          "title": {"type": "string", "minLength": 1},
          "year": {"type": "integer", "minimum": 1850, "maximum": 2024},
          "issuer": {"type": "string", "minLength": 1},
          "description": {"type": "string"},
          "media_type": {"type": "string"}
        }
      }
    },
    "unique_features": {"type": "array", "items": {"type": "string"}, "title": "Unique Features"},
    "signature_products": {"type": "array", "items": {"type": "string"}, "title": "Signature Products/Services"},
    "search_tags": {"type": "array", "items": {"type": "string"}, "title": "Search Tags"},
    "demo_highlights": {"type": "array", "items": {"type": "string"}, "maxItems": 5, "title": "Demo Talking Points"},
    "current_status": {"type": "string", "enum": ["active", "closed", "relocated", "pending_review"], "title": "Current Status"},
    "status_notes": {"type": "string"},
    "application_id": {"type": "string", "title": "Application ID"},
    "heritage_score": {"type": "integer", "minimum": 0, "maximum": 100, "title": "Heritage Score"},
    "created_at": {"type": "string", "format": "date-time"},
    "updated_at": {"type": "string", "format": "date-time"},
    "last_verified": {"type": "string", "format": "date-time"},
    "source_documents": {"type": "array", "items": {"type": "string"}},
    "extraction_confidence": {"type": "number", "minimum": 0, "maximum": 1}
  }
}`

// LegacyBusinessSearchSchema validates advanced search request bodies.
const LegacyBusinessSearchSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "LegacyBusinessSearch",
  "type": "object",
  "properties": {
    "query": {"type": "string"},
    "neighborhood": {
      "type": "string",
      "enum": ["Chinatown", "Mission District", "North Beach", "Castro", "Haight-Ashbury", "SoMa",
               "Financial District", "Nob Hill", "Richmond", "Sunset", "Marina", "Pacific Heights"]
    },
    "founding_year_min": {"type": "integer", "minimum": 1850, "maximum": 2024},
    "founding_year_max": {"type": "integer", "minimum": 1850, "maximum": 2024},
    "business_type": {"type": "string"},
    "heritage_score_min": {"type": "integer", "minimum": 0, "maximum": 100},
    "limit": {"type": "integer", "minimum": 1, "maximum": 100},
    "offset": {"type": "integer", "minimum": 0},
    "similarity_threshold": {"type": "number", "minimum": 0, "maximum": 1},
    "search_fields": {"type": "array", "items": {"type": "string"}}
  }
}`
